package model

// Vendor is a supplier in the vendor directory.
type Vendor struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    Category `json:"category" yaml:"category"`
	Active      bool     `json:"active" yaml:"active"`
	PreApproved bool     `json:"preApproved" yaml:"preApproved"`
}

// IsPreApproved is nil safe; a missing or inactive vendor is never
// pre-approved.
func (v *Vendor) IsPreApproved() bool {
	return v != nil && v.Active && v.PreApproved
}

// Clone returns a copy of the vendor.
func (v *Vendor) Clone() *Vendor {
	if v == nil {
		return nil
	}
	ret := *v
	return &ret
}
