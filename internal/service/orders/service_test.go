package orders

import (
	"errors"
	"testing"
	"time"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/store"
)

var today = models.NewDate(2026, time.October, 19)

func newTestService(kind models.CounterpartyKind) *Service {
	return NewService(kind, models.FixedCalendar(today), nil)
}

func orderInput(name string, delivery models.Date) models.OrderInput {
	return models.OrderInput{
		Counterparty:   name,
		Product:        "Huile extra vierge",
		OrderDate:      today.AddDays(-3),
		DeliveryDate:   delivery,
		PriceBeforeTax: "100",
		VATPct:         "19",
		DiscountPct:    "10",
		Advance:        "50",
	}
}

func TestAddDerivesPricesAndStatus(t *testing.T) {
	svc := newTestService(models.KindClient)

	order, err := svc.Add(orderInput("Zitouna", today))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if order.ID != "CMD-C-1" {
		t.Fatalf("unexpected id %s", order.ID)
	}
	if order.PriceAfterTax.StringFixed(2) != "107.10" || order.RemainingBalance.StringFixed(2) != "57.10" {
		t.Fatalf("unexpected prices ttc=%s remaining=%s", order.PriceAfterTax, order.RemainingBalance)
	}
	if order.Status != models.StatusDelivered {
		t.Fatalf("delivery today should be delivered, got %s", order.Status)
	}
	if order.Quantity != 1 {
		t.Fatalf("quantity should default to 1, got %d", order.Quantity)
	}
	if order.PaymentMode != models.PaymentCash {
		t.Fatalf("payment mode should default to cash, got %s", order.PaymentMode)
	}

	tomorrow, err := svc.Add(orderInput("Zitouna", today.AddDays(1)))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tomorrow.Status != models.StatusInProgress {
		t.Fatalf("delivery tomorrow should be in progress, got %s", tomorrow.Status)
	}
}

func TestSupplierIDsUseTheirOwnPrefix(t *testing.T) {
	svc := newTestService(models.KindSupplier)
	order, err := svc.Add(orderInput("Agri Sfax", today))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if order.ID != "CMD-F-1" {
		t.Fatalf("unexpected id %s", order.ID)
	}
}

func TestAddRequiresNameAndPrice(t *testing.T) {
	svc := newTestService(models.KindClient)

	in := orderInput("", today)
	if _, err := svc.Add(in); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	in = orderInput("Zitouna", today)
	in.PriceBeforeTax = " "
	if _, err := svc.Add(in); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	in = orderInput("Zitouna", today)
	in.PaymentMode = "Bitcoin"
	if _, err := svc.Add(in); !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(svc.All()) != 0 {
		t.Fatal("rejected orders must not be stored")
	}
}

func TestDefaultsForBlankFields(t *testing.T) {
	svc := newTestService(models.KindClient)
	order, err := svc.Add(models.OrderInput{Counterparty: "Zitouna", PriceBeforeTax: "100"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !order.OrderDate.Equal(today) || !order.DeliveryDate.Equal(today.AddDays(7)) {
		t.Fatalf("unexpected default dates %s %s", order.OrderDate, order.DeliveryDate)
	}
	if order.PriceAfterTax.StringFixed(2) != "119.00" {
		t.Fatalf("blank VAT should default to 19%%, got %s", order.PriceAfterTax)
	}
	if order.Status != models.StatusInProgress {
		t.Fatalf("expected in progress, got %s", order.Status)
	}
}

func TestOrderIDNeverReassigned(t *testing.T) {
	svc := newTestService(models.KindClient)
	a, _ := svc.Add(orderInput("Zeta", today))
	b, _ := svc.Add(orderInput("Alpha", today))

	if err := svc.Sort(SortNameAsc); err != nil {
		t.Fatalf("sort: %v", err)
	}
	all := svc.All()
	if all[0].Ref != b.Ref || all[0].ID != "CMD-C-2" {
		t.Fatalf("id should travel with the row on sort: %+v", all[0])
	}

	edited, err := svc.Edit(a.Ref, orderInput("Zeta Renamed", today.AddDays(5)))
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.ID != a.ID {
		t.Fatalf("edit changed the order id: %s -> %s", a.ID, edited.ID)
	}
	if edited.Status != models.StatusInProgress {
		t.Fatalf("status should be recomputed on save, got %s", edited.Status)
	}

	if _, err := svc.Delete(a.Ref, store.Confirmed); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c, _ := svc.Add(orderInput("Gamma", today))
	if c.ID != "CMD-C-3" {
		t.Fatalf("order numbers must not be reused, got %s", c.ID)
	}
}

func TestSortByDateNewestFirst(t *testing.T) {
	svc := newTestService(models.KindClient)
	for _, offset := range []int{-30, -1, -400} {
		in := orderInput("X", today)
		in.OrderDate = today.AddDays(offset)
		svc.Add(in)
	}
	if err := svc.Sort(SortDateDesc); err != nil {
		t.Fatalf("sort: %v", err)
	}
	all := svc.All()
	if !all[0].OrderDate.Equal(today.AddDays(-1)) || !all[2].OrderDate.Equal(today.AddDays(-400)) {
		t.Fatalf("unexpected order %s %s %s", all[0].OrderDate, all[1].OrderDate, all[2].OrderDate)
	}
}

func TestStatistics(t *testing.T) {
	svc := newTestService(models.KindSupplier)
	svc.Add(orderInput("Agri Sfax", today))
	svc.Add(orderInput("Agri Sfax", today.AddDays(3)))
	svc.Add(orderInput("Baraka", today.AddDays(-1)))

	st := svc.Statistics()
	if st.TotalOrders != 3 || st.Counterparties != 2 {
		t.Fatalf("unexpected totals %+v", st)
	}
	if st.Delivered != 2 || st.InProgress != 1 || st.DeliveryRate != 66.7 {
		t.Fatalf("unexpected delivery figures %+v", st)
	}
	if st.Breakdown.Total != st.TotalOrders {
		t.Fatalf("breakdown total %d != %d", st.Breakdown.Total, st.TotalOrders)
	}
	if st.Best.Counterparty != "Agri Sfax" || st.Best.Total != 2 || st.Best.Rate != 50 {
		t.Fatalf("unexpected best %+v", st.Best)
	}
}

func TestStatisticsResetAfterLastDelete(t *testing.T) {
	svc := newTestService(models.KindClient)
	o, _ := svc.Add(orderInput("Zitouna", today))
	if _, err := svc.Delete(o.Ref, store.Confirmed); err != nil {
		t.Fatalf("delete: %v", err)
	}
	st := svc.Statistics()
	if st.TotalOrders != 0 || !st.Breakdown.IsEmpty() || st.Best.Counterparty != "-" || st.DeliveryRate != 0 {
		t.Fatalf("expected zero stats, got %+v", st)
	}
}

func TestSearchByCounterparty(t *testing.T) {
	svc := newTestService(models.KindClient)
	svc.Add(orderInput("Zitouna", today))
	svc.Add(orderInput("Baraka", today))

	if got := svc.Search("zit"); len(got) != 1 || got[0].Counterparty != "Zitouna" {
		t.Fatalf("unexpected search result %+v", got)
	}
	if len(svc.All()) != 2 {
		t.Fatal("search removed rows")
	}
	if st := svc.Statistics(); st.TotalOrders != 2 {
		t.Fatalf("search should not gate statistics, got %d", st.TotalOrders)
	}
	if got := svc.Search(""); len(got) != 2 {
		t.Fatalf("clearing the search should show all rows, got %d", len(got))
	}
}

func TestSaveSelected(t *testing.T) {
	svc := newTestService(models.KindClient)
	o, _ := svc.SaveSelected(orderInput("Zitouna", today))
	if _, err := svc.Select(o.Ref); err != nil {
		t.Fatalf("select: %v", err)
	}
	edited, err := svc.SaveSelected(orderInput("Zitouna SA", today))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if edited.ID != o.ID || len(svc.All()) != 1 || svc.Selection() != "" {
		t.Fatalf("unexpected state after save: %+v", edited)
	}
}

func TestEditKeepsQuantityWhenOmitted(t *testing.T) {
	svc := newTestService(models.KindClient)

	input := orderInput("Zitouna", today)
	input.Quantity = 5
	order, err := svc.Add(input)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	edited, err := svc.Edit(order.Ref, orderInput("Zitouna", today))
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Quantity != 5 {
		t.Fatalf("quantity should be kept on edit, got %d", edited.Quantity)
	}

	input.Quantity = 8
	edited, err = svc.Edit(order.Ref, input)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Quantity != 8 {
		t.Fatalf("quantity should follow a positive input, got %d", edited.Quantity)
	}
}
