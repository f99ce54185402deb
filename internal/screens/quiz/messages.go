package quiz

import sess "github.com/abhisek/calcquiz/internal/session"

// startedMsg reports the outcome of loading the chapter.
type startedMsg struct {
	Err error
}

// finishedMsg is sent once the controller has a result.
type finishedMsg struct {
	Result sess.Result
}
