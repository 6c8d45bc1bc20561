package metrics

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// RelationChanges counts favorite, cart and follow toggles.
	RelationChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foodgram_relation_changes_total",
		Help: "Favorite, shopping cart and follow additions and removals.",
	}, []string{"relation", "action"})

	ShoppingListDownloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foodgram_shopping_list_downloads_total",
		Help: "Generated shopping lists.",
	})
)

const (
	RelationFavorite     = "favorite"
	RelationShoppingCart = "shopping_cart"
	RelationFollow       = "follow"

	ActionAdd    = "add"
	ActionRemove = "remove"
)

func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		HTTPRequests.WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).Inc()
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
