package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"adaayam_back_end/internal/models"
)

const productIndexName = "products"

// ProductIndex indexe les produits dans Elasticsearch pour la recherche.
type ProductIndex struct {
	es *elasticsearch.Client
}

func NewProductIndex(es *elasticsearch.Client) *ProductIndex {
	return &ProductIndex{es: es}
}

// Index pousse un produit dans l'index de recherche.
func (pi *ProductIndex) Index(p models.Product) {
	if pi.es == nil {
		log.Println("⚠️ Elastic non initialisé, impossible d'indexer:", p.Name)
		return
	}

	data, _ := json.Marshal(p)
	req := esapi.IndexRequest{
		Index:      productIndexName,
		DocumentID: p.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "true",
	}

	res, err := req.Do(context.Background(), pi.es)
	if err != nil {
		log.Println("❌ Erreur envoi Elastic:", err)
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Printf("⚠️ Elastic a renvoyé une erreur pour %s: %s", p.Name, res.String())
	} else {
		log.Printf("✅ Produit indexé dans Elasticsearch: %s", p.Name)
	}
}

// Remove retire un produit désactivé de l'index.
func (pi *ProductIndex) Remove(productID string) {
	if pi.es == nil {
		return
	}

	req := esapi.DeleteRequest{
		Index:      productIndexName,
		DocumentID: productID,
	}

	res, err := req.Do(context.Background(), pi.es)
	if err != nil {
		log.Println("❌ Erreur suppression Elastic:", err)
		return
	}
	res.Body.Close()
}

// Search cherche des produits par nom, description ou catégorie.
func (pi *ProductIndex) Search(ctx context.Context, query string) ([]models.Product, error) {
	if pi.es == nil {
		return nil, fmt.Errorf("client Elasticsearch non initialisé")
	}

	var buf bytes.Buffer
	q := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"name", "description", "category"},
			},
		},
	}
	if err := json.NewEncoder(&buf).Encode(q); err != nil {
		return nil, fmt.Errorf("erreur encodage requête: %v", err)
	}

	res, err := pi.es.Search(
		pi.es.Search.WithContext(ctx),
		pi.es.Search.WithIndex(productIndexName),
		pi.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("erreur Elasticsearch: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source models.Product `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		products = append(products, hit.Source)
	}
	return products, nil
}
