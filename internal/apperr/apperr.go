// Package apperr définit les familles d'erreurs métier et leur projection HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindGatewayUnavailable
)

// Error est une erreur typée. OrderID n'est renseigné que pour
// GatewayUnavailable : la commande existe déjà, l'appelant doit
// redemander un token sur celle-ci au lieu d'en créer une deuxième.
type Error struct {
	Kind    Kind
	Message string
	OrderID string
}

func (e *Error) Error() string {
	return e.Message
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// GatewayUnavailable porte l'identifiant de la commande persistée.
func GatewayUnavailable(orderID, format string, args ...interface{}) *Error {
	return &Error{Kind: KindGatewayUnavailable, Message: fmt.Sprintf(format, args...), OrderID: orderID}
}

// KindOf extrait la famille d'une erreur, KindUnknown si elle n'est pas typée.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is permet de tester une famille sans détailler le message.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus projette une erreur vers un code HTTP.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindGatewayUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
