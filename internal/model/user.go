package model

// Claims is the validated identity derived from a bearer token.
type Claims struct {
	UserID      int64
	CompanyID   int64
	CompanyType string
}

// User carries the identity and display fields the hub needs: claims for
// authorization, full name and company name for chat composition.
type User struct {
	ID          int64  `db:"id" json:"id"`
	FullName    string `db:"full_name" json:"full_name"`
	CompanyID   int64  `db:"company_id" json:"company_id"`
	CompanyType string `db:"company_type" json:"company_type"`
	CompanyName string `db:"company_name" json:"company_name"`
}

func (u *User) Claims() *Claims {
	return &Claims{
		UserID:      u.ID,
		CompanyID:   u.CompanyID,
		CompanyType: u.CompanyType,
	}
}
