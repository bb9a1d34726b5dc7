package handler

type ContextKey string

var (
	ClaimsCtxKey      ContextKey = "claims"
	MyInfoCtx         ContextKey = "myInfo"
	UserInfoCtx       ContextKey = "userInfo"
	LetterCtx         ContextKey = "letter"
	ArchivedLetterCtx ContextKey = "archivedLetter"
)
