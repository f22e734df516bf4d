package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSubstringFilterCoversNameAndDescription(t *testing.T) {
	filter := substringFilter("tree")

	clauses, ok := filter["$or"].([]bson.M)
	if !ok || len(clauses) != 2 {
		t.Fatalf("expected two $or clauses, got %+v", filter)
	}
	if _, ok := clauses[0]["name"]; !ok {
		t.Fatal("expected a name clause")
	}
	if _, ok := clauses[1]["description"]; !ok {
		t.Fatal("expected a description clause")
	}
}

func TestSubstringFilterEscapesRegexMeta(t *testing.T) {
	filter := substringFilter("50% off (trees)")

	clauses := filter["$or"].([]bson.M)
	pattern := clauses[0]["name"].(bson.M)["$regex"].(string)

	if pattern != `50% off \(trees\)` {
		t.Fatalf("expected escaped pattern, got %q", pattern)
	}
}
