package sheet

// Dialogs is the user-interaction surface the engine raises before
// destructive remote work. ui.ConsoleDialogs implements it for terminal
// runs; tests script answers through a fake.
type Dialogs interface {
	// Confirm presents a blocking Yes/No choice and returns the answer.
	Confirm(title, message string) (bool, error)

	// Alert shows a non-blocking notice.
	Alert(message string)
}
