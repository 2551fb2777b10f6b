// ABOUTME: User-facing messages shared by the HTML pages and the client SDK
// ABOUTME: Keeps the confirmation prompts and outcome notices identical everywhere

package domain

// Confirmation prompts
const (
	PromptCreate = "Sei sicuro di voler postare questo server?"
	PromptUpdate = "Sei sicuro di voler modificare questo server?"
)

// Progress notices
const (
	LoadingCreate = "Postando il tuo server..."
	LoadingUpdate = "Modificando il tuo server..."
)

// Outcome notices
const (
	NoticeCreated = "Il tuo server e' stato postato."
	NoticeUpdated = "Il tuo server e' stato modificato."
	NoticeExpired = "La richiesta e' scaduta. Compila di nuovo il modulo."

	FailureCreate = "C'e' stato un problema nel postare il tuo server."
	FailureUpdate = "C'e' stato un problema nel modificare il tuo server."
)

// Prompt returns the confirmation question for a create or an update
func Prompt(update bool) string {
	if update {
		return PromptUpdate
	}
	return PromptCreate
}

// Loading returns the notice shown while a create or an update is sent
func Loading(update bool) string {
	if update {
		return LoadingUpdate
	}
	return LoadingCreate
}

// Failure returns the notice shown when a create or an update fails
func Failure(update bool) string {
	if update {
		return FailureUpdate
	}
	return FailureCreate
}

// Success returns the notice shown after a create or an update
func Success(update bool) string {
	if update {
		return NoticeUpdated
	}
	return NoticeCreated
}
