package domain

// Request structs for the record operations. Amounts cross this
// boundary as plain numbers; they are converted to decimals once the
// input has been validated. ItemParams.Amount is accepted for
// symmetry with the persisted shape but is always recomputed.

type AddCustomerParams struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
	ContactPhone  string `json:"contact_phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	Code          string `json:"code" validate:"required,alpha,min=2,max=3"`
}

type EditCustomerParams struct {
	Name          string `json:"name" validate:"required"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	ContactPerson string `json:"contact_person"`
	ContactPhone  string `json:"contact_phone"`
	Email         string `json:"email" validate:"omitempty,email"`
	Code          string `json:"code" validate:"required,alpha,min=2,max=3"`
}

type ItemParams struct {
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gt=0"`
	Rate        float64 `json:"rate" validate:"gte=0"`
	Amount      float64 `json:"amount"`
}

type CreateInvoiceParams struct {
	CustomerCode string       `json:"customer_code" validate:"required"`
	Items        []ItemParams `json:"items" validate:"min=1,dive"`
	Notes        string       `json:"notes"`
	DueDate      string       `json:"due_date" validate:"required,datetime=2006-01-02"`
}

type EditInvoiceParams struct {
	Items   []ItemParams `json:"items" validate:"min=1,dive"`
	Notes   string       `json:"notes"`
	DueDate string       `json:"due_date" validate:"required,datetime=2006-01-02"`
	Paid    bool         `json:"paid"`
}
