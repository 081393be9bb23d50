package models

// UserProfile is the issuer identity printed on every invoice.
type UserProfile struct {
	Name         string `json:"name"`
	CompanyName  string `json:"companyName"`
	Address      string `json:"address"`
	TaxID        string `json:"taxId"`
	Email        string `json:"email"`
	SignatureRef string `json:"signatureRef,omitempty"` // path or URL of a signature image
	LogoRef      string `json:"logoRef,omitempty"`      // path or URL of a logo image
}

// CustomerSettings holds per-customer invoice defaults, keyed by customer name.
type CustomerSettings struct {
	Address  string `json:"address"`
	Currency string `json:"currency"`
	Notes    string `json:"notes"`
	DueDays  int    `json:"dueDays"`
}
