package usercontext

// Shared Locals/session keys used across controllers and middlewares
const (
	KeyActorContext = "ACTOR_CONTEXT"
	KeyUserID       = "user_id"
	KeyUserName     = "user_name"
	KeyUserRole     = "user_role"
)
