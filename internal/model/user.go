package model

// FieldEmail is the User field used as the uniqueness key.
const FieldEmail = "email"

// UserEmail returns the email of a user document.
func UserEmail(user Document) string {
	return user.String(FieldEmail)
}
