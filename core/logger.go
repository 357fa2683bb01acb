package core

// Logger reports application events and errors. Implementations may fan out
// to an external error tracker; a user.User passed in args identifies the
// affected person where the backend supports it.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
