package domain

// Address is an immutable value object embedded into a label. Company,
// Street2 and Email are optional; everything else is required.
type Address struct {
	Name    string
	Company string
	Street1 string
	Street2 string
	City    string
	State   string
	Zip     string
	Phone   string
	Email   string
}

// Validate checks that the required fields are present. Real-world address
// correctness is out of scope.
func (a Address) Validate() error {
	if a.Name == "" || a.Street1 == "" || a.City == "" || a.State == "" || a.Zip == "" || a.Phone == "" {
		return ErrInvalidAddress
	}
	return nil
}
