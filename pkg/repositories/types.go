package repositories

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

type ErrUsernameExists struct {
}

func (e *ErrUsernameExists) Error() string {
	return "username already exists"
}

func IsUsernameExists(err error) bool {
	_, ok := err.(*ErrUsernameExists)
	return ok
}
