package handler

type ContextKey string

var (
	SubCtxKey    ContextKey = "sub"
	CoachInfoCtx ContextKey = "coachInfo"
	StoreInfoCtx ContextKey = "storeInfo"
)
