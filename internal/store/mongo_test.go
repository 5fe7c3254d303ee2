package store

import (
	"context"
	"testing"

	"kestrel/internal/config"
	"kestrel/internal/domain"
)

func TestConnectRejectsInvalidURI(t *testing.T) {
	cfg := config.StoreConfig{
		URI:      "not-a-mongodb-uri",
		Database: "ip_extraction",
	}

	if _, err := Connect(context.Background(), cfg); err == nil {
		t.Fatal("Connect accepted an invalid connection URI")
	}
}

func TestToDocuments(t *testing.T) {
	records := []domain.AddressRecord{
		{IP: "8.8.8.8", Country: "US"},
		{IP: "10.0.0.5"},
	}

	docs := toDocuments(records)
	if len(docs) != 2 {
		t.Fatalf("toDocuments returned %d documents, want 2", len(docs))
	}

	first, ok := docs[0].(domain.AddressRecord)
	if !ok {
		t.Fatalf("document has unexpected type %T", docs[0])
	}
	if first.IP != "8.8.8.8" || first.Country != "US" {
		t.Fatalf("document = %+v, want {8.8.8.8 US}", first)
	}
}

func TestToDocumentsEmpty(t *testing.T) {
	if docs := toDocuments(nil); len(docs) != 0 {
		t.Fatalf("toDocuments(nil) = %v, want empty", docs)
	}
}
