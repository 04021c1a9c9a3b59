package stock

import (
	"strings"
	"sync"

	"github.com/mamadbah2/oliveraq/internal/domain/models"
	"github.com/mamadbah2/oliveraq/internal/service/pricing"
)

// Mode tells whether saving the form appends a batch or overwrites one.
type Mode string

const (
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

// FieldState reports which inputs accept user entry. Yield is always computed.
type FieldState struct {
	ProducedQuantity bool `json:"produced_quantity_l"`
	Yield            bool `json:"yield"`
	Quality          bool `json:"quality"`
}

// FormState is a snapshot of the production form.
type FormState struct {
	Mode    Mode              `json:"mode"`
	Ref     string            `json:"ref,omitempty"`
	Fields  models.BatchInput `json:"fields"`
	Enabled FieldState        `json:"enabled"`
}

// Form is the add/edit panel of the production screen.
type Form struct {
	svc *Service

	mu     sync.Mutex
	mode   Mode
	ref    string
	fields models.BatchInput
}

func newForm(svc *Service) *Form {
	f := &Form{svc: svc}
	f.reset()
	return f
}

// State returns the current form contents.
func (f *Form) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshot()
}

// BeginAdd clears the form and fills the defaults for a new batch.
func (f *Form) BeginAdd() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reset()
	return f.snapshot()
}

// BeginEdit loads the batch named by ref and switches to edit mode.
func (f *Form) BeginEdit(ref string) (FormState, error) {
	batch, err := f.svc.Get(ref)
	if err != nil {
		return FormState{}, err
	}

	fields := models.BatchInput{
		Identifier:     batch.Identifier,
		ProductionDate: batch.ProductionDate,
		Type:           batch.Type,
		RawQuantity:    batch.RawText(),
		Lot:            batch.Lot,
		Quality:        batch.Quality,
		ExpirationDate: batch.ExpirationDate,
	}
	if batch.Type.HasOutput() {
		fields.ProducedQuantity = batch.ProducedText()
		fields.Yield = batch.YieldText()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mode = ModeEdit
	f.ref = batch.Ref
	f.fields = fields
	f.applyTypeRules()
	return f.snapshot(), nil
}

// SetType changes the product type and enables or blanks the dependent fields.
func (f *Form) SetType(productType models.ProductType) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.Type = productType
	f.applyTypeRules()
	return f.snapshot()
}

// SetQuantities changes the raw and produced quantities and recomputes the yield.
func (f *Form) SetQuantities(raw, produced string) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.RawQuantity = raw
	f.fields.ProducedQuantity = produced
	f.applyTypeRules()
	return f.snapshot()
}

// SetFields replaces the editable fields. The yield is recomputed, never taken from input.
func (f *Form) SetFields(fields models.BatchInput) FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
	f.applyTypeRules()
	return f.snapshot()
}

// Save validates the form and adds or edits the batch. On success the form returns to add
// mode; on failure it keeps its contents.
func (f *Form) Save() (models.ProductionBatch, error) {
	f.mu.Lock()
	mode, ref, fields := f.mode, f.ref, f.fields
	f.mu.Unlock()

	var (
		batch models.ProductionBatch
		err   error
	)
	if mode == ModeEdit {
		batch, err = f.svc.Edit(ref, fields)
	} else {
		batch, err = f.svc.Add(fields)
	}
	if err != nil {
		return models.ProductionBatch{}, err
	}

	f.mu.Lock()
	f.reset()
	f.mu.Unlock()
	return batch, nil
}

// forget leaves edit mode when the edited batch disappears.
func (f *Form) forget(ref string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeEdit && f.ref == ref {
		f.reset()
	}
}

func (f *Form) reset() {
	today := f.svc.Today()
	f.mode = ModeAdd
	f.ref = ""
	f.fields = models.BatchInput{
		ProductionDate: today,
		Type:           models.ProductTypes[0],
		Quality:        models.Qualities[0],
		ExpirationDate: today.AddYears(defaultShelfLifeYears),
	}
}

func (f *Form) applyTypeRules() {
	if f.fields.Type == "" {
		f.fields.Type = models.ProductTypes[0]
	}
	if !f.fields.Type.HasOutput() {
		f.fields.ProducedQuantity = ""
		f.fields.Yield = ""
		f.fields.Quality = ""
		return
	}
	if f.fields.Quality == "" {
		f.fields.Quality = models.Qualities[0]
	}
	f.fields.Yield = pricing.RecomputeYield(f.fields.Type,
		strings.TrimSpace(f.fields.RawQuantity), strings.TrimSpace(f.fields.ProducedQuantity))
}

func (f *Form) snapshot() FormState {
	output := f.fields.Type.HasOutput()
	return FormState{
		Mode:    f.mode,
		Ref:     f.ref,
		Fields:  f.fields,
		Enabled: FieldState{ProducedQuantity: output, Quality: output},
	}
}
