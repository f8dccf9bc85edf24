package types

import (
	"Shopcore/pkg/errs"
	"fmt"
	"strings"
)

// Owner 购物车归属：登录用户或匿名会话，二者只能是其一
type Owner interface {
	CacheKey() string
	String() string
	owner()
}

// User 登录用户
type User struct {
	ID uint64
}

// Guest 匿名会话
type Guest struct {
	SessionID string
}

func (u User) CacheKey() string { return fmt.Sprintf("cart:user:%d", u.ID) }
func (u User) String() string   { return fmt.Sprintf("user:%d", u.ID) }
func (User) owner()             {}

func (g Guest) CacheKey() string { return "cart:session:" + g.SessionID }
func (g Guest) String() string   { return "session:" + g.SessionID }
func (Guest) owner()             {}

// ResolveOwner 在 API 边界把可选的用户ID/会话ID转换为 Owner，用户ID优先
func ResolveOwner(userID uint64, sessionID string) (Owner, error) {
	if userID > 0 {
		return User{ID: userID}, nil
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID != "" {
		return Guest{SessionID: sessionID}, nil
	}
	return nil, errs.ErrInvalidIdentity
}
