package payment

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tausif1337/remart/internal/domain"
	apperrors "github.com/tausif1337/remart/pkg/errors"
	"github.com/tausif1337/remart/pkg/httpclient"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	inner := httpclient.New(httpclient.Config{
		Timeout:      2 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
	})
	cb := httpclient.NewCircuitBreakerClient(inner,
		httpclient.DefaultCircuitBreakerConfig("gateway-"+t.Name()), testLogger())

	return NewClient(Config{
		BaseURL:       baseURL,
		StoreID:       "teststore",
		StorePassword: "secret",
		Currency:      "BDT",
		SuccessURL:    "remart://payment/success",
		FailURL:       "remart://payment/fail",
		CancelURL:     "remart://payment/cancel",
	}, cb, testLogger())
}

func testCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{
		FirstName: "Tausif",
		LastName:  "Rahman",
		Email:     "tausif@example.com",
		Phone:     "01700000000",
		Address:   "House 12, Road 5",
		City:      "Dhaka",
		State:     "Dhaka",
		ZipCode:   "1207",
		Country:   "Bangladesh",
	}
}

func sessionRequest() SessionRequest {
	return SessionRequest{
		TranID:   "tran-001",
		Amount:   489.97,
		Customer: testCustomer(),
		Items: []domain.CartItem{
			{Product: domain.Product{ID: "p1", Name: "Headphones", Price: 199.99, Category: "Electronics"}, Quantity: 2},
			{Product: domain.Product{ID: "p2", Name: "Keyboard", Price: 89.99, Category: "Electronics"}, Quantity: 1},
		},
	}
}

func TestInitiateSessionSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, sessionPath, r.URL.Path)
		require.NoError(t, r.ParseForm())

		assert.Equal(t, "teststore", r.PostFormValue("store_id"))
		assert.Equal(t, "489.97", r.PostFormValue("total_amount"))
		assert.Equal(t, "BDT", r.PostFormValue("currency"))
		assert.Equal(t, "tran-001", r.PostFormValue("tran_id"))
		assert.Equal(t, "remart://payment/success", r.PostFormValue("success_url"))
		assert.Equal(t, "Headphones, Keyboard", r.PostFormValue("product_name"))
		assert.Equal(t, "Electronics", r.PostFormValue("product_category"))
		assert.Equal(t, "2", r.PostFormValue("num_of_item"))
		assert.Equal(t, "Tausif Rahman", r.PostFormValue("cus_name"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"SUCCESS","sessionkey":"sess-1","GatewayPageURL":"https://gw.example.com/pay/sess-1"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	session, err := client.InitiateSession(context.Background(), sessionRequest())

	require.NoError(t, err)
	assert.Equal(t, "sess-1", session.SessionKey)
	assert.Equal(t, "https://gw.example.com/pay/sess-1", session.GatewayURL)
}

func TestInitiateSessionFailedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"FAILED","failedreason":"store credential invalid"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.InitiateSession(context.Background(), sessionRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
	assert.Contains(t, err.Error(), "store credential invalid")
}

func TestInitiateSessionNoSessionInResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"SUCCESS"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.InitiateSession(context.Background(), sessionRequest())

	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
}

func TestValidateAcceptsValidStatuses(t *testing.T) {
	for _, status := range []string{"VALID", "VALIDATED"} {
		t.Run(status, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, validatorPath, r.URL.Path)
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "tran-001", r.PostFormValue("tran_id"))

				_, _ = w.Write([]byte(`{"status":"` + status + `","tran_id":"tran-001","amount":"489.97","currency":"BDT"}`))
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL)
			assert.NoError(t, client.Validate(context.Background(), "tran-001", 489.97, "BDT"))
		})
	}
}

func TestValidateRejectsInvalidStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"INVALID_TRANSACTION"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	err := client.Validate(context.Background(), "tran-001", 489.97, "BDT")

	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
}

func TestValidateRejectsShortAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"VALID","amount":"100.00","currency":"BDT"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	err := client.Validate(context.Background(), "tran-001", 489.97, "BDT")

	assert.ErrorIs(t, err, apperrors.ErrPaymentFailed)
}

func TestClassifyRedirect(t *testing.T) {
	client := newTestClient(t, "http://unused")

	assert.Equal(t, OutcomeSuccess, client.ClassifyRedirect("remart://payment/success?tran_id=t1"))
	assert.Equal(t, OutcomeFail, client.ClassifyRedirect("remart://payment/fail?tran_id=t1"))
	assert.Equal(t, OutcomeCancel, client.ClassifyRedirect("remart://payment/cancel"))
	assert.Equal(t, OutcomeUnknown, client.ClassifyRedirect("https://gw.example.com/step2"))
}

func TestProductNamesTruncation(t *testing.T) {
	items := make([]domain.CartItem, 15)
	for i := range items {
		items[i] = domain.CartItem{
			Product:  domain.Product{ID: string(rune('a' + i)), Name: "Very Long Product Name Number"},
			Quantity: 1,
		}
	}

	names := productNames(items)
	assert.LessOrEqual(t, len(names), maxProductNameLen)
}

func TestProductNamesEmptyCart(t *testing.T) {
	assert.Equal(t, "Order", productNames(nil))
}
