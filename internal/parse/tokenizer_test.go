package parse

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	t.Run("drops blank lines", func(t *testing.T) {
		rows := Tokenize("a,b\n\n   \nc,d\r\n")
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d: %v", len(rows), rows)
		}
		if !reflect.DeepEqual(rows[0], []string{"a", "b"}) || !reflect.DeepEqual(rows[1], []string{"c", "d"}) {
			t.Fatalf("unexpected rows: %v", rows)
		}
	})

	t.Run("treats quoted commas as literal content", func(t *testing.T) {
		rows := Tokenize(`Hogar,Cafetera,2,"1,234.56"`)
		want := []string{"Hogar", "Cafetera", "2", "1,234.56"}
		if !reflect.DeepEqual(rows[0], want) {
			t.Fatalf("expected %v, got %v", want, rows[0])
		}
	})

	t.Run("trims every field", func(t *testing.T) {
		rows := Tokenize("  Ana , ana@example.com ,  E001  ")
		want := []string{"Ana", "ana@example.com", "E001"}
		if !reflect.DeepEqual(rows[0], want) {
			t.Fatalf("expected %v, got %v", want, rows[0])
		}
	})

	t.Run("empty input yields no rows", func(t *testing.T) {
		if rows := Tokenize("\n\n"); rows != nil {
			t.Fatalf("expected no rows, got %v", rows)
		}
	})
}

func TestClampToHeader(t *testing.T) {
	t.Run("rejoins surplus tail fields into the last column", func(t *testing.T) {
		got := ClampToHeader([]string{"Hogar", "Cafetera", "2", "1", "234.56"}, 4)
		want := []string{"Hogar", "Cafetera", "2", "1,234.56"}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("leaves exact and short rows unchanged", func(t *testing.T) {
		exact := []string{"a", "b", "c"}
		if got := ClampToHeader(exact, 3); !reflect.DeepEqual(got, exact) {
			t.Fatalf("expected %v, got %v", exact, got)
		}
		short := []string{"a", "b"}
		if got := ClampToHeader(short, 3); !reflect.DeepEqual(got, short) {
			t.Fatalf("expected %v, got %v", short, got)
		}
	})
}
