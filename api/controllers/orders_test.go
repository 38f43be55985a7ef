package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickkart/quickkart-backend/api/middleware"
	orderssvc "github.com/quickkart/quickkart-backend/internal/orders"
	"github.com/quickkart/quickkart-backend/pkg/db/models"
	"github.com/quickkart/quickkart-backend/pkg/enums"
	pkgerrors "github.com/quickkart/quickkart-backend/pkg/errors"
	"github.com/quickkart/quickkart-backend/pkg/pagination"
)

type stubOrdersService struct {
	order *models.Order
	list  *orderssvc.OrderList
	err   error

	getInput        orderssvc.GetOrderInput
	transitionInput orderssvc.TransitionInput
	cancelInput     orderssvc.TransitionInput
	listFilters     orderssvc.ListFilters
	queueParams     pagination.Params
}

func (s *stubOrdersService) GetOrder(_ context.Context, input orderssvc.GetOrderInput) (*models.Order, error) {
	s.getInput = input
	return s.order, s.err
}

func (s *stubOrdersService) GetOrderByNumber(_ context.Context, _ string, _ uuid.UUID, _ enums.ActorRole) (*models.Order, error) {
	return s.order, s.err
}

func (s *stubOrdersService) ListOrders(_ context.Context, _ uuid.UUID, _ pagination.Params, filters orderssvc.ListFilters) (*orderssvc.OrderList, error) {
	s.listFilters = filters
	return s.list, s.err
}

func (s *stubOrdersService) Transition(_ context.Context, input orderssvc.TransitionInput) (*models.Order, error) {
	s.transitionInput = input
	return s.order, s.err
}

func (s *stubOrdersService) Cancel(_ context.Context, input orderssvc.TransitionInput) (*models.Order, error) {
	s.cancelInput = input
	return s.order, s.err
}

func (s *stubOrdersService) FulfillmentQueue(_ context.Context, params pagination.Params) (*orderssvc.OrderList, error) {
	s.queueParams = params
	return s.list, s.err
}

func (s *stubOrdersService) ExpirePending(_ context.Context, _ int) (*orderssvc.ExpireResult, error) {
	return nil, s.err
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestOrderListParsesStatusFilter(t *testing.T) {
	svc := &stubOrdersService{list: &orderssvc.OrderList{Orders: []models.Order{}}}
	handler := OrderList(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/orders?status=delivered", ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.listFilters.Status == nil || *svc.listFilters.Status != enums.OrderStatusDelivered {
		t.Fatalf("expected delivered filter, got %v", svc.listFilters.Status)
	}
}

func TestOrderListRejectsUnknownStatus(t *testing.T) {
	handler := OrderList(&stubOrdersService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/orders?status=teleported", ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderDetailForwardsScope(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{ID: orderID, OrderNumber: "QK-100007"}}
	handler := OrderDetail(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), "")
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.getInput.OrderID != orderID {
		t.Fatalf("expected order id forwarded")
	}
	if svc.getInput.CustomerID == uuid.Nil {
		t.Fatal("expected customer scope forwarded")
	}
}

func TestOrderDetailRejectsMalformedID(t *testing.T) {
	handler := OrderDetail(&stubOrdersService{}, nil)

	req := authedRequest(http.MethodGet, "/api/v1/orders/not-a-uuid", "")
	req = withURLParam(req, "orderId", "not-a-uuid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderCancelForwardsReason(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{ID: orderID, Status: enums.OrderStatusCancelled}}
	handler := OrderCancel(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", `{"reason":"ordered by mistake"}`)
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.cancelInput.Note != "ordered by mistake" {
		t.Fatalf("expected reason forwarded, got %q", svc.cancelInput.Note)
	}
	if svc.cancelInput.ActorID == nil {
		t.Fatal("expected actor id forwarded")
	}
}

func TestOrderCancelMapsStateConflict(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled")}
	handler := OrderCancel(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/orders/"+orderID.String()+"/cancel", `{}`)
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
}

func TestStaffOrderTransitionParsesTarget(t *testing.T) {
	orderID := uuid.New()
	svc := &stubOrdersService{order: &models.Order{ID: orderID, Status: enums.OrderStatusConfirmed}}
	handler := StaffOrderTransition(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/staff/orders/"+orderID.String()+"/transition", `{"status":"confirmed","note":"verified payment"}`)
	req = req.WithContext(middleware.WithRole(req.Context(), string(enums.ActorRoleStaff)))
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.transitionInput.Target != enums.OrderStatusConfirmed {
		t.Fatalf("expected confirmed target got %s", svc.transitionInput.Target)
	}
	if svc.transitionInput.ActorRole != enums.ActorRoleStaff {
		t.Fatalf("expected staff actor got %s", svc.transitionInput.ActorRole)
	}
}

func TestStaffOrderTransitionRejectsUnknownStatus(t *testing.T) {
	orderID := uuid.New()
	handler := StaffOrderTransition(&stubOrdersService{}, nil)

	req := authedRequest(http.MethodPost, "/api/v1/staff/orders/"+orderID.String()+"/transition", `{"status":"warp"}`)
	req = withURLParam(req, "orderId", orderID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestStaffOrderQueueForwardsPaging(t *testing.T) {
	svc := &stubOrdersService{list: &orderssvc.OrderList{Orders: []models.Order{{OrderNumber: "QK-100003"}}}}
	handler := StaffOrderQueue(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/orders?limit=5&cursor=abc", nil)
	req = req.WithContext(middleware.WithRole(req.Context(), string(enums.ActorRoleStaff)))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.queueParams.Limit != 5 || svc.queueParams.Cursor != "abc" {
		t.Fatalf("unexpected paging params %+v", svc.queueParams)
	}
}

func TestStaffOrderByNumberLooksUpOrder(t *testing.T) {
	svc := &stubOrdersService{order: &models.Order{ID: uuid.New(), OrderNumber: "QK-100042"}}
	handler := StaffOrderByNumber(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/staff/orders/by-number/QK-100042", nil)
	req = req.WithContext(middleware.WithRole(req.Context(), string(enums.ActorRoleStaff)))
	req = withURLParam(req, "orderNumber", "QK-100042")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data models.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "QK-100042" {
		t.Fatalf("unexpected order number %s", envelope.Data.OrderNumber)
	}
}
