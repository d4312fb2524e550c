package middleware

import (
	"errors"
	"fmt"

	"github.com/bogdanSgithub/autovitals-backend/internal/apperr"
	"github.com/bogdanSgithub/autovitals-backend/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// Policy is the closed set of authorization rules a route can require.
type Policy int

const (
	// PolicyAuthenticated accepts any live session.
	PolicyAuthenticated Policy = iota + 1
	// PolicySelf accepts a live session whose user is the request's target.
	PolicySelf
	// PolicyAdmin is PolicySelf plus the admin flag on the user's profile.
	PolicyAdmin
)

func (p Policy) String() string {
	switch p {
	case PolicyAuthenticated:
		return "authenticated"
	case PolicySelf:
		return "self"
	case PolicyAdmin:
		return "admin"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// Target says where a request names the user it acts on. Either source may
// be left empty.
type Target struct {
	Param string // gin path parameter
	Body  string // top-level JSON body field
}

func PathParam(name string) Target { return Target{Param: name} }

func BodyField(name string) Target { return Target{Body: name} }

// Rule binds a policy to the target it is checked against.
type Rule struct {
	Policy Policy
	Target Target
}

func Authenticated() Rule { return Rule{Policy: PolicyAuthenticated} }

func Self(t Target) Rule { return Rule{Policy: PolicySelf, Target: t} }

func Admin(t Target) Rule { return Rule{Policy: PolicyAdmin, Target: t} }

func (r Rule) String() string {
	return r.Policy.String()
}

// Evaluate resolves the caller and applies rule. Denials are returned as
// ErrUnauthenticated, ErrWrongIdentity or ErrNotAdmin; anything else is a
// collaborator failure.
func (g *Gate) Evaluate(c *gin.Context, rule Rule) (auth.Identity, error) {
	id, err := g.Resolve(c.Request)
	if err != nil {
		return auth.Identity{}, err
	}

	switch rule.Policy {
	case PolicyAuthenticated:
		return id, nil

	case PolicySelf:
		if !g.targets(c, rule.Target, id.Username) {
			return auth.Identity{}, ErrWrongIdentity
		}
		return id, nil

	case PolicyAdmin:
		if !g.targets(c, rule.Target, id.Username) {
			return auth.Identity{}, ErrWrongIdentity
		}
		if g.Admins == nil {
			return auth.Identity{}, errors.New("admin policy without admin checker")
		}
		isAdmin, err := g.Admins.IsAdmin(c.Request.Context(), id.Username)
		if errors.Is(err, apperr.ErrNotFound) {
			return auth.Identity{}, ErrNotAdmin
		}
		if err != nil {
			return auth.Identity{}, fmt.Errorf("admin lookup for %s: %w", id.Username, err)
		}
		if !isAdmin {
			return auth.Identity{}, ErrNotAdmin
		}
		id.IsAdmin = true
		return id, nil

	default:
		return auth.Identity{}, ErrUnauthenticated
	}
}

// targets reports whether the request's target user is username. When a
// target names both sources, a match in either one is enough.
func (g *Gate) targets(c *gin.Context, t Target, username string) bool {
	var fromPath, fromBody string
	if t.Param != "" {
		fromPath = c.Param(t.Param)
	}
	if t.Body != "" {
		fromBody = bodyString(c, t.Body)
	}

	return (fromPath != "" && fromPath == username) ||
		(fromBody != "" && fromBody == username)
}

// bodyString reads a string field out of a JSON body. The body is cached on
// the context so handlers can still bind it with ShouldBindBodyWith.
func bodyString(c *gin.Context, field string) string {
	if c.Request.Body == nil {
		return ""
	}
	var body map[string]any
	if err := c.ShouldBindBodyWith(&body, binding.JSON); err != nil {
		return ""
	}
	v, _ := body[field].(string)
	return v
}
