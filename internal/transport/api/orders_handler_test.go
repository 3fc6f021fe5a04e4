package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"

	"github.com/fsdevblog/orderdesk/internal/domain"
	"github.com/fsdevblog/orderdesk/internal/logger"
	"github.com/fsdevblog/orderdesk/internal/service"
	"github.com/fsdevblog/orderdesk/internal/service/tokens"
	"github.com/fsdevblog/orderdesk/internal/transport/api/mocks"
	"github.com/fsdevblog/orderdesk/internal/transport/api/testutils"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	mockOrderService *mocks.MockOrderServicer
	jwtSecret        []byte
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())

	s.mockOrderService = mocks.NewMockOrderServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	s.router = New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		OrderService: s.mockOrderService,
		JWTSecretKey: s.jwtSecret,
	})
}

func (s *OrderHandlerTestSuite) userToken(userID int64) string {
	token, err := tokens.GenerateUserJWT(userID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *OrderHandlerTestSuite) makeJSONRequest(method, url, token string, body []byte) *http.Response {
	reqOpts := []func(*testutils.RequestOptions){
		testutils.WithHeader("Content-Type", "application/json"),
	}
	if token != "" {
		reqOpts = append(reqOpts, testutils.WithHeader("Authorization", fmt.Sprintf("Bearer %s", token)))
	}
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: method,
		URL:    url,
		Body:   bytes.NewReader(body),
	}, reqOpts...)
	s.Require().NoError(err)
	return res
}

func (s *OrderHandlerTestSuite) TestCreate() {
	var currentUserID int64 = 1
	currentUserToken := s.userToken(currentUserID)

	address := gofakeit.Street()

	fullArgs := service.CreateOrderArgs{
		ItemName:        "Book",
		Quantity:        2,
		Price:           decimal.RequireFromString("9.99"),
		ShippingAddress: address,
		PaymentStatus:   domain.PaymentStatusPending,
	}
	// Отсутствующие поля получают явные дефолты.
	defaultedArgs := service.CreateOrderArgs{
		ItemName:        "Pen",
		Quantity:        1,
		Price:           decimal.Zero,
		ShippingAddress: "N/A",
		PaymentStatus:   domain.PaymentStatusPending,
	}

	s.mockOrderService.EXPECT().
		Create(gomock.Any(), currentUserID, gomock.Eq(fullArgs)).
		Return(&domain.Order{ID: 10, UserID: currentUserID}, nil)
	s.mockOrderService.EXPECT().
		Create(gomock.Any(), currentUserID, gomock.Eq(defaultedArgs)).
		Return(&domain.Order{ID: 11, UserID: currentUserID}, nil)

	cases := []struct {
		name       string
		payload    string
		token      string
		wantStatus int
	}{
		{
			name: "all fields",
			payload: fmt.Sprintf(
				`{"item_name":"Book","quantity":2,"price":9.99,"shipping_address":%q,"payment_status":"Pending"}`,
				address),
			token:      currentUserToken,
			wantStatus: http.StatusCreated,
		}, {
			name:       "defaults applied",
			payload:    `{"item_name":"Pen"}`,
			token:      currentUserToken,
			wantStatus: http.StatusCreated,
		}, {
			name:       "missing item name",
			payload:    `{"quantity":1}`,
			token:      currentUserToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "zero quantity",
			payload:    `{"item_name":"Book","quantity":0}`,
			token:      currentUserToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "negative price",
			payload:    `{"item_name":"Book","price":-1}`,
			token:      currentUserToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "unknown payment status",
			payload:    `{"item_name":"Book","payment_status":"Refunded"}`,
			token:      currentUserToken,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "not authorized",
			payload:    `{"item_name":"Book"}`,
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "bad request",
			payload:    "",
			token:      currentUserToken,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			res := s.makeJSONRequest(http.MethodPost, RouteGroup+OrdersRoute, t.token, []byte(t.payload))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusCreated {
				var body struct {
					OrderID int64 `json:"order_id"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.NotZero(body.OrderID)
			}
		})
	}
}

func (s *OrderHandlerTestSuite) TestIndex() {
	var userID int64 = 1
	var noOrdersUserID int64 = 2

	orders := []domain.Order{
		{
			ID:            10,
			CreatedAt:     time.Now(),
			UserID:        userID,
			ItemName:      gofakeit.ProductName(),
			Quantity:      1,
			Price:         decimal.RequireFromString("9.99"),
			PaymentStatus: domain.PaymentStatusPending,
		},
	}
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), userID).Return(orders, nil)
	s.mockOrderService.EXPECT().GetByUserID(gomock.Any(), noOrdersUserID).Return([]domain.Order{}, nil)

	cases := []struct {
		name       string
		userID     int64
		wantStatus int
		wantCount  int
	}{
		{name: "own orders", userID: userID, wantStatus: http.StatusOK, wantCount: 1},
		{name: "no orders", userID: noOrdersUserID, wantStatus: http.StatusOK, wantCount: 0},
		{name: "not authorized", userID: 0, wantStatus: http.StatusUnauthorized},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var token string
			if t.userID != 0 {
				token = s.userToken(t.userID)
			}
			res := s.makeJSONRequest(http.MethodGet, RouteGroup+OrdersRoute, token, nil)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body struct {
					Orders []OrderResponse `json:"orders"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Len(body.Orders, t.wantCount)
				for _, order := range body.Orders {
					s.Equal(t.userID, order.UserID)
				}
			}
		})
	}
}

// TestIndexExpiredToken - просроченный токен дает 401 с единственным json телом,
// детали ошибки валидации токена наружу не отдаются.
func (s *OrderHandlerTestSuite) TestIndexExpiredToken() {
	expiredToken, tokenErr := tokens.GenerateUserJWT(1, -time.Minute, s.jwtSecret)
	s.Require().NoError(tokenErr)

	res := s.makeJSONRequest(http.MethodGet, RouteGroup+OrdersRoute, expiredToken, nil)
	defer func() {
		closeErr := res.Body.Close()
		s.Require().NoError(closeErr)
	}()

	s.Equal(http.StatusUnauthorized, res.StatusCode)

	body, readErr := io.ReadAll(res.Body)
	s.Require().NoError(readErr)
	s.Require().True(json.Valid(body))
	s.JSONEq(`{"error":"Unauthorized"}`, string(body))
}

// TestShow повторяет сценарий уязвимости из атаки IDOR: alice создала заказ, bob подставляет его
// числовой id. Ожидание - 403, данные заказа bob'у не отдаются.
func (s *OrderHandlerTestSuite) TestShow() {
	var aliceID int64 = 1
	var bobID int64 = 2

	aliceOrder := domain.Order{
		ID:            1,
		UserID:        aliceID,
		ItemName:      "Book",
		Quantity:      2,
		Price:         decimal.RequireFromString("9.99"),
		PaymentStatus: domain.PaymentStatusPending,
	}

	s.mockOrderService.EXPECT().GetByID(gomock.Any(), aliceID, aliceOrder.ID).
		Return(&aliceOrder, nil)
	s.mockOrderService.EXPECT().GetByID(gomock.Any(), bobID, aliceOrder.ID).
		Return(nil, domain.ErrAccessDenied)
	s.mockOrderService.EXPECT().GetByID(gomock.Any(), aliceID, int64(404)).
		Return(nil, domain.ErrRecordNotFound)

	cases := []struct {
		name       string
		userID     int64
		orderID    string
		wantStatus int
	}{
		{name: "owner sees own order", userID: aliceID, orderID: "1", wantStatus: http.StatusOK},
		{name: "foreign order is forbidden", userID: bobID, orderID: "1", wantStatus: http.StatusForbidden},
		{name: "missing order", userID: aliceID, orderID: "404", wantStatus: http.StatusNotFound},
		{name: "non numeric id", userID: aliceID, orderID: "abc", wantStatus: http.StatusNotFound},
		{name: "not authorized", userID: 0, orderID: "1", wantStatus: http.StatusUnauthorized},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var token string
			if t.userID != 0 {
				token = s.userToken(t.userID)
			}
			res := s.makeJSONRequest(http.MethodGet, RouteGroup+OrdersRoute+"/"+t.orderID, token, nil)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body struct {
					Order OrderResponse `json:"order"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(aliceOrder.ID, body.Order.ID)
				s.Equal(aliceID, body.Order.UserID)
			}
		})
	}
}

func (s *OrderHandlerTestSuite) TestUpdate() {
	var aliceID int64 = 1
	var bobID int64 = 2

	newAddress := gofakeit.Street()
	paidStatus := domain.PaymentStatusPaid

	updatedOrder := domain.Order{
		ID:              1,
		UserID:          aliceID,
		ItemName:        "Book",
		ShippingAddress: newAddress,
		PaymentStatus:   domain.PaymentStatusPending,
	}

	// Владелец меняет только адрес.
	s.mockOrderService.EXPECT().
		Update(gomock.Any(), aliceID, int64(1), gomock.Eq(service.UpdateOrderArgs{
			ShippingAddress: &newAddress,
		})).
		Return(&updatedOrder, nil)
	// Чужой заказ запрещен, мутации нет.
	s.mockOrderService.EXPECT().
		Update(gomock.Any(), bobID, int64(1), gomock.Any()).
		Return(nil, domain.ErrAccessDenied)
	// Несуществующий заказ.
	s.mockOrderService.EXPECT().
		Update(gomock.Any(), aliceID, int64(404), gomock.Any()).
		Return(nil, domain.ErrRecordNotFound)
	// Недопустимый переход статуса.
	s.mockOrderService.EXPECT().
		Update(gomock.Any(), aliceID, int64(2), gomock.Eq(service.UpdateOrderArgs{
			PaymentStatus: &paidStatus,
		})).
		Return(nil, domain.NewInvalidStatusTransitionError(domain.PaymentStatusCancelled, paidStatus))

	cases := []struct {
		name       string
		userID     int64
		orderID    string
		payload    string
		wantStatus int
	}{
		{
			name:       "owner updates shipping address",
			userID:     aliceID,
			orderID:    "1",
			payload:    fmt.Sprintf(`{"shipping_address":%q}`, newAddress),
			wantStatus: http.StatusOK,
		}, {
			name:       "foreign order is forbidden",
			userID:     bobID,
			orderID:    "1",
			payload:    `{"shipping_address":"hijacked"}`,
			wantStatus: http.StatusForbidden,
		}, {
			name:       "missing order",
			userID:     aliceID,
			orderID:    "404",
			payload:    `{"shipping_address":"somewhere"}`,
			wantStatus: http.StatusNotFound,
		}, {
			name:       "illegal status transition",
			userID:     aliceID,
			orderID:    "2",
			payload:    `{"payment_status":"Paid"}`,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "unknown payment status",
			userID:     aliceID,
			orderID:    "1",
			payload:    `{"payment_status":"Refunded"}`,
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "not authorized",
			userID:     0,
			orderID:    "1",
			payload:    `{"shipping_address":"somewhere"}`,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var token string
			if t.userID != 0 {
				token = s.userToken(t.userID)
			}
			res := s.makeJSONRequest(http.MethodPut, RouteGroup+OrdersRoute+"/"+t.orderID, token, []byte(t.payload))
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()

			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body struct {
					Order OrderResponse `json:"order"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(newAddress, body.Order.ShippingAddress)
			}
		})
	}
}
