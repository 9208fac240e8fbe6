package log

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"megano/internal/domain"
)

type entry struct {
	TS      string         `json:"ts"`
	Level   string         `json:"level"`
	ReqID   string         `json:"req_id,omitempty"`
	IP      string         `json:"ip,omitempty"`
	Method  string         `json:"method,omitempty"`
	Path    string         `json:"path,omitempty"`
	Route   string         `json:"route,omitempty"`
	UserID  int64          `json:"user_id,omitempty"`
	Session string         `json:"session,omitempty"`
	Target  *target        `json:"target,omitempty"`
	Action  string         `json:"action,omitempty"`
	Status  int            `json:"status,omitempty"`
	Err     string         `json:"err,omitempty"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// target is the storefront object the request addresses through its :id
// route parameter.
type target struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// Route prefixes whose :id names an object of the given kind. Longer
// prefixes come first.
var targetKinds = []struct{ prefix, kind string }{
	{"/api/admin/orders/", "order"},
	{"/api/admin/products/", "product"},
	{"/api/admin/categories/", "category"},
	{"/api/order/", "order"},
	{"/api/payment/", "order"},
	{"/api/product/", "product"},
}

func targetOf(c *fiber.Ctx, route string) *target {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return nil
	}
	for _, k := range targetKinds {
		if strings.HasPrefix(route, k.prefix) {
			return &target{Kind: k.kind, ID: id}
		}
	}
	return nil
}

// sessionTag identifies the sid cookie in logs without writing the cookie
// itself.
func sessionTag(sid string) string {
	if sid == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(sid))
	return hex.EncodeToString(sum[:6])
}

func write(level string, c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry{TS: time.Now().UTC().Format(time.RFC3339), Level: level, Action: action, Fields: fields}
	if c != nil {
		e.IP = c.IP()
		e.Method = c.Method()
		e.Path = c.Path()
		e.Status = c.Response().StatusCode()
		if r := c.Route(); r != nil {
			e.Route = r.Path
			e.Target = targetOf(c, r.Path)
		}
		e.Session = sessionTag(c.Cookies("sid"))
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e.ReqID = rid
		}
		if u, ok := c.Locals("user").(*domain.User); ok && u != nil {
			e.UserID = u.ID
		}
	}
	if err != nil {
		e.Err = err.Error()
	}
	b, _ := json.Marshal(e)
	log.Println(string(b))
}

func Info(c *fiber.Ctx, action string, fields map[string]any) { write("info", c, action, nil, fields) }
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	write("audit", c, action, nil, fields)
}
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	write("warn", c, action, nil, fields)
}
func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	write("error", c, action, err, fields)
}
