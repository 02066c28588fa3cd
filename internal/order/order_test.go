package order

import (
	"errors"
	"math/rand"
	"testing"
)

var paneerTikka = MenuItem{ID: "m-101", Name: "Paneer Tikka", Price: 220, IsAvailable: true}
var gulabJamun = MenuItem{ID: "m-102", Name: "Gulab Jamun", Price: 90, IsAvailable: true}

func TestAddCatalogItemMergesNewLines(t *testing.T) {
	o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})

	for i := 0; i < 4; i++ {
		o.AddCatalogItem(paneerTikka)
	}

	if len(o.Lines) != 1 {
		t.Fatalf("expected a single merged line, got %d", len(o.Lines))
	}
	if o.Lines[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", o.Lines[0].Quantity)
	}
	if o.Lines[0].Price != 220 {
		t.Fatalf("expected frozen price 220, got %v", o.Lines[0].Price)
	}
}

func TestAddCatalogItemDoesNotMergePlacedLines(t *testing.T) {
	o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
	o.AddCatalogItem(paneerTikka)
	o.MarkPlaced("ord-1")

	o.AddCatalogItem(paneerTikka)

	if len(o.Lines) != 2 {
		t.Fatalf("expected a fresh line after the first was placed, got %d lines", len(o.Lines))
	}
	if o.Lines[0].Status != StatusPlaced || o.Lines[1].Status != StatusNew {
		t.Fatalf("expected Placed then New, got %s then %s", o.Lines[0].Status, o.Lines[1].Status)
	}
}

func TestAddCatalogItemKeepsFrozenPrice(t *testing.T) {
	o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
	o.AddCatalogItem(paneerTikka)

	repriced := paneerTikka
	repriced.Price = 260
	o.AddCatalogItem(repriced)

	if o.Lines[0].Price != 220 {
		t.Fatalf("expected frozen catalog price 220, got %v", o.Lines[0].Price)
	}
}

func TestAddManualItem(t *testing.T) {
	cases := []struct {
		name      string
		itemName  string
		itemPrice string
		wantErr   bool
	}{
		{name: "valid", itemName: "Extra Chutney", itemPrice: "20", wantErr: false},
		{name: "empty name", itemName: "  ", itemPrice: "20", wantErr: true},
		{name: "unparseable price", itemName: "Extra Chutney", itemPrice: "twenty", wantErr: true},
		{name: "zero price", itemName: "Extra Chutney", itemPrice: "0", wantErr: true},
		{name: "negative price", itemName: "Extra Chutney", itemPrice: "-5", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := NewTakeaway("Asha")
			_, err := o.AddManualItem(tc.itemName, tc.itemPrice)
			if tc.wantErr {
				var oe *Error
				if !errors.As(err, &oe) || oe.Code != ErrOrderValidation {
					t.Fatalf("expected validation error, got %v", err)
				}
				if len(o.Lines) != 0 {
					t.Fatalf("expected order unchanged on validation error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(o.Lines) != 1 || !o.Lines[0].Manual() {
				t.Fatalf("expected one manual line, got %+v", o.Lines)
			}
		})
	}
}

func TestAddManualItemMergeTakesLatestPrice(t *testing.T) {
	o := NewTakeaway("Asha")
	if _, err := o.AddManualItem("Extra Chutney", "20"); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := o.AddManualItem("Extra Chutney", "25"); err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(o.Lines) != 1 {
		t.Fatalf("expected merged manual line, got %d lines", len(o.Lines))
	}
	if o.Lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", o.Lines[0].Quantity)
	}
	if o.Lines[0].Price != 25 {
		t.Fatalf("expected latest manual price 25, got %v", o.Lines[0].Price)
	}
}

func TestChangeQuantity(t *testing.T) {
	t.Run("sent to kitchen is immutable", func(t *testing.T) {
		o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
		line := o.AddCatalogItem(paneerTikka)
		line.Status = StatusSentToKitchen

		err := o.ChangeQuantity(line.MenuItemID, 1)
		var oe *Error
		if !errors.As(err, &oe) || oe.Code != ErrOrderStateConflict {
			t.Fatalf("expected state conflict, got %v", err)
		}
		if o.Lines[0].Quantity != 1 {
			t.Fatalf("expected order unchanged, quantity is %d", o.Lines[0].Quantity)
		}
	})

	t.Run("reducing to zero removes the line", func(t *testing.T) {
		o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
		o.AddCatalogItem(paneerTikka)
		o.AddCatalogItem(paneerTikka)

		if err := o.ChangeQuantity(paneerTikka.ID, -2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(o.Lines) != 0 {
			t.Fatalf("expected line removed, got %d lines", len(o.Lines))
		}
	})

	t.Run("positive delta updates in place", func(t *testing.T) {
		o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
		o.AddCatalogItem(paneerTikka)

		if err := o.ChangeQuantity(paneerTikka.ID, 2); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Lines[0].Quantity != 3 {
			t.Fatalf("expected quantity 3, got %d", o.Lines[0].Quantity)
		}
	})

	t.Run("unknown line", func(t *testing.T) {
		o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
		err := o.ChangeQuantity("nope", 1)
		var oe *Error
		if !errors.As(err, &oe) || oe.Code != ErrOrderLineNotFound {
			t.Fatalf("expected line not found, got %v", err)
		}
	})
}

func TestRemoveLine(t *testing.T) {
	o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
	o.AddCatalogItem(paneerTikka)
	o.AddCatalogItem(gulabJamun)

	if err := o.RemoveLine(gulabJamun.ID); err != nil {
		t.Fatalf("remove new line: %v", err)
	}
	if len(o.Lines) != 1 {
		t.Fatalf("expected one remaining line, got %d", len(o.Lines))
	}

	o.Lines[0].Status = StatusPreparing
	err := o.RemoveLine(paneerTikka.ID)
	var oe *Error
	if !errors.As(err, &oe) || oe.Code != ErrOrderStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if len(o.Lines) != 1 {
		t.Fatalf("expected line kept, got %d lines", len(o.Lines))
	}
}

func TestTotalIsOrderInvariant(t *testing.T) {
	o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
	o.AddCatalogItem(paneerTikka)
	o.AddCatalogItem(paneerTikka)
	o.AddCatalogItem(gulabJamun)
	if _, err := o.AddManualItem("Extra Chutney", "20"); err != nil {
		t.Fatalf("manual add: %v", err)
	}

	expected := 220.0*2 + 90 + 20
	if got := o.Total(); got != expected {
		t.Fatalf("expected total %v, got %v", expected, got)
	}

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(o.Lines), func(a, b int) {
			o.Lines[a], o.Lines[b] = o.Lines[b], o.Lines[a]
		})
		if got := o.Total(); got != expected {
			t.Fatalf("total changed under reordering: %v", got)
		}
	}
}

func TestNewLinesPartition(t *testing.T) {
	o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
	o.AddCatalogItem(paneerTikka)
	if _, err := o.AddManualItem("Extra Chutney", "20"); err != nil {
		t.Fatalf("manual add: %v", err)
	}
	o.MarkPlaced("ord-9")
	o.AddCatalogItem(gulabJamun)

	catalog, manual := o.NewLines()
	if len(catalog) != 1 || catalog[0].MenuItemID != gulabJamun.ID {
		t.Fatalf("expected only the post-KOT catalog line, got %+v", catalog)
	}
	if len(manual) != 0 {
		t.Fatalf("expected no new manual lines, got %+v", manual)
	}
}

func TestMarkPlaced(t *testing.T) {
	o := NewDineIn(TableRef{ID: "t-3", Name: "T3"})
	o.AddCatalogItem(paneerTikka)
	placed := o.AddCatalogItem(gulabJamun)
	placed.Status = StatusPreparing

	o.MarkPlaced("ord-42")

	if o.IsNew || o.ID != "ord-42" {
		t.Fatalf("expected persisted order ord-42, got id=%q isNew=%v", o.ID, o.IsNew)
	}
	if o.Lines[0].Status != StatusPlaced {
		t.Fatalf("expected New line to become Placed, got %s", o.Lines[0].Status)
	}
	if o.Lines[1].Status != StatusPreparing {
		t.Fatalf("expected in-kitchen line untouched, got %s", o.Lines[1].Status)
	}
}
