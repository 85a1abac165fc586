package service

type PasswordService interface {
	// Hash returns the value stored in users.password.
	Hash(password string) (string, error)
	Verify(password, stored string) (rehashNeeded bool, ok bool)
}
