package token

import "testing"

func TestLookupReserved(t *testing.T) {
	cases := map[string]Kind{
		"val": KwVal, "fun": KwFun, "and": KwAnd, "withtype": KwWithtype,
		"_": Underscore,
	}
	for word, want := range cases {
		got, ok := LookupReserved(word)
		if !ok || got != want {
			t.Errorf("LookupReserved(%q) = %v, %v; want %v, true", word, got, ok, want)
		}
	}
	if _, ok := LookupReserved("notAKeyword"); ok {
		t.Fatal("expected notAKeyword to not be reserved")
	}
}

func TestLookupReservedSymbol(t *testing.T) {
	if k, ok := LookupReservedSymbol("=>"); !ok || k != DArrow {
		t.Errorf("LookupReservedSymbol(=>) = %v, %v", k, ok)
	}
	if _, ok := LookupReservedSymbol("+++"); ok {
		t.Fatal("expected +++ to not be reserved")
	}
}
