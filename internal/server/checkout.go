package server

import (
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	checkoutdomain "github.com/swaylabs/sway/internal/checkout/domain"
)

type CreateOrderRequest struct {
	PlanName      string                   `json:"planName"`
	PaymentMethod string                   `json:"paymentMethod"`
	CompanyData   map[string]any           `json:"companyData"`
	CardData      *checkoutdomain.CardData `json:"cardData"`
}

type ConfirmPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Status    string `json:"status"`
}

func (s *Server) GetPlan(c *gin.Context) {
	plan, err := s.checkoutSvc.GetPlan(c.Request.Context(), c.Param("planName"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "Plano carregado", plan)
}

func (s *Server) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.PlanName == "" {
		AbortWithError(c, validationError("Plano é obrigatório"))
		return
	}

	user := userFromContext(c)
	result, err := s.checkoutSvc.CreateOrder(c.Request.Context(), checkoutdomain.CreateOrderRequest{
		UserID:        user.ID,
		Plan:          req.PlanName,
		PaymentMethod: req.PaymentMethod,
		CompanyData:   req.CompanyData,
		CardData:      req.CardData,
	})
	if err != nil {
		if errors.Is(err, checkoutdomain.ErrPlanNotFound) {
			AbortWithError(c, validationError("Plano inválido"))
			return
		}
		AbortWithError(c, err)
		return
	}

	payload := gin.H{
		"orderId":       result.Order.ID,
		"plan":          result.Order.Plan,
		"amount":        result.Order.Amount,
		"currency":      result.Order.Currency,
		"paymentMethod": result.Order.PaymentMethod,
	}
	if result.PaymentURL != "" {
		payload["paymentUrl"] = result.PaymentURL
	}
	respondOK(c, "Pedido criado com sucesso", payload)
}

// ConfirmPayment is the gateway webhook. Replays of settled orders are
// acknowledged without touching anything.
func (s *Server) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	orderID, err := snowflake.ParseString(req.OrderID)
	if err != nil {
		AbortWithError(c, checkoutdomain.ErrOrderNotFound)
		return
	}

	err = s.checkoutSvc.ConfirmPayment(c.Request.Context(), checkoutdomain.ConfirmPaymentRequest{
		OrderID:   orderID,
		PaymentID: req.PaymentID,
		Status:    req.Status,
	})
	if err != nil {
		if errors.Is(err, checkoutdomain.ErrOrderAlreadyProcessed) {
			respondOK(c, "Pagamento já processado", nil)
			return
		}
		AbortWithError(c, err)
		return
	}

	respondOK(c, "Pagamento processado com sucesso", nil)
}

func (s *Server) GetOrder(c *gin.Context) {
	orderID, err := snowflake.ParseString(c.Param("orderId"))
	if err != nil {
		AbortWithError(c, checkoutdomain.ErrOrderNotFound)
		return
	}

	user := userFromContext(c)
	order, err := s.checkoutSvc.GetOrder(c.Request.Context(), user.ID, orderID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondOK(c, "Pedido carregado", order)
}
