package redis

const (
	questionsKey     = "quiz:questions"
	scoresKey        = "quiz:scores"
	scoreSeqKey      = "quiz:scores:seq"
	scoreSeqNextKey  = "quiz:scores:seq:next"
	sessionKeyPrefix = "quiz:session:"
)
