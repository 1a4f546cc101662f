package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidArgument("quantité invalide"), http.StatusBadRequest},
		{NotFound("commande introuvable"), http.StatusNotFound},
		{Unauthenticated("token manquant"), http.StatusUnauthorized},
		{Forbidden("accès réservé"), http.StatusForbidden},
		{Conflict("référence déjà utilisée"), http.StatusConflict},
		{GatewayUnavailable("order-1", "passerelle injoignable"), http.StatusBadGateway},
		{errors.New("erreur brute"), http.StatusInternalServerError},
		{nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err))
	}
}

func TestKindOfUnwrapsChains(t *testing.T) {
	wrapped := fmt.Errorf("lecture de la commande: %w", NotFound("commande introuvable: %s", "order-1"))

	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindNotFound))
	assert.False(t, Is(wrapped, KindConflict))
}

func TestGatewayUnavailableCarriesOrderID(t *testing.T) {
	err := GatewayUnavailable("order-42", "commande %s en attente de token", "order-42")

	var e *Error
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, "order-42", e.OrderID)
	assert.Contains(t, e.Message, "order-42")
}
