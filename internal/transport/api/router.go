package api

import (
	"time"

	"github.com/fsdevblog/orderdesk/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup    = "/api"
	RegisterRoute = "/register"
	LoginRoute    = "/login"
	OrdersRoute   = "/orders"
	OrderRoute    = "/orders/:id"
)

type RouterArgs struct {
	Logger       *logrus.Logger
	UserService  UserServicer
	OrderService OrderServicer
	JWTSecretKey []byte
}

func New(args RouterArgs) *gin.Engine {
	if err := registerValidators(); err != nil {
		// ошибка регистрации валидаторов - ошибка программиста, работать дальше бессмысленно.
		panic(err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService)

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.POST(OrdersRoute, ordersHandler.Create)
	api.GET(OrdersRoute, ordersHandler.Index)
	api.GET(OrderRoute, ordersHandler.Show)
	api.PUT(OrderRoute, ordersHandler.Update)

	return r
}
