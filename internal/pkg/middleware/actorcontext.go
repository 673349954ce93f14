package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/rewardcircle/rewardcircle/app/repository"
	"github.com/rewardcircle/rewardcircle/internal/pkg/rolecache"
	"github.com/rewardcircle/rewardcircle/internal/pkg/session"
	"github.com/rewardcircle/rewardcircle/internal/pkg/usercontext"
)

// ActorContextMiddleware resolves the acting user for every request and
// stores it in Locals. The role comes from the redis cache when present;
// on a miss it is resolved from the users table and cached best-effort.
// A disabled account is treated as anonymous regardless of session state.
func ActorContextMiddleware(c *fiber.Ctx) error {
	anonymous := usercontext.ActorContext{IsLoggedIn: false}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(usercontext.KeyActorContext, anonymous)
		return c.Next()
	}

	rawID := sess.Get(usercontext.KeyUserID)
	if rawID == nil {
		c.Locals(usercontext.KeyActorContext, anonymous)
		return c.Next()
	}

	userID, ok := rawID.(uint)
	if !ok {
		// Session values round-trip through the store as strings.
		if s, isStr := rawID.(string); isStr {
			if parsed, perr := strconv.ParseUint(s, 10, 64); perr == nil {
				userID = uint(parsed)
				ok = true
			}
		}
	}
	if !ok || userID == 0 {
		c.Locals(usercontext.KeyActorContext, anonymous)
		return c.Next()
	}

	name := session.GetSessionValue(c, usercontext.KeyUserName)

	role, cached := rolecache.Get(userID)
	if !cached {
		user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
		if err != nil || !user.IsActive() {
			c.Locals(usercontext.KeyActorContext, anonymous)
			return c.Next()
		}
		role = user.Role
		name = user.Name
		rolecache.Put(userID, role)
	}

	c.Locals(usercontext.KeyActorContext, usercontext.ActorContext{
		UserID:     userID,
		Name:       name,
		Role:       role,
		IsLoggedIn: true,
	})

	return c.Next()
}
