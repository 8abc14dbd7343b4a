// Package gateway exposes the catalog and cart controllers over a thin
// JSON HTTP surface. It carries no business logic: requests are decoded,
// validated, delegated, and mapped back.
package gateway

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/apierror"
	"github.com/xenking/storefront/internal/cart"
	"github.com/xenking/storefront/internal/catalog"
	domain "github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/rawjson"
	"github.com/xenking/storefront/internal/validate"
)

// maxRequestBytes bounds request bodies on cart mutations.
const maxRequestBytes = 1 << 20

// Handler serves the storefront data API.
type Handler struct {
	catalog *catalog.Controller
	cart    *cart.Controller
	lg      *zap.Logger
}

// NewHandler constructs a Handler over the two state controllers.
func NewHandler(catalogCtrl *catalog.Controller, cartCtrl *cart.Controller, lg *zap.Logger) *Handler {
	return &Handler{
		catalog: catalogCtrl,
		cart:    cartCtrl,
		lg:      lg,
	}
}

// Routes registers every endpoint on the given mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products/refresh", h.refreshProducts)
	mux.HandleFunc("POST /api/products/retry", h.retryProducts)
	mux.HandleFunc("DELETE /api/products/error", h.dismissError)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/add", h.addToCart)
	mux.HandleFunc("POST /api/cart/remove", h.removeFromCart)
	mux.HandleFunc("POST /api/cart/increase", h.increaseQuantity)
	mux.HandleFunc("POST /api/cart/decrease", h.decreaseQuantity)
}

// listProducts applies the size selection from the query string and
// returns the filtered catalog together with the error/loading state.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	sizes := r.URL.Query()["size"]
	h.catalog.Filter(r.Context(), sizes)
	h.writeCatalogState(w)
}

func (h *Handler) refreshProducts(w http.ResponseWriter, r *http.Request) {
	h.catalog.Fetch(r.Context())
	h.writeCatalogState(w)
}

func (h *Handler) retryProducts(w http.ResponseWriter, r *http.Request) {
	h.catalog.RetryFetch(r.Context())
	h.writeCatalogState(w)
}

func (h *Handler) dismissError(w http.ResponseWriter, _ *http.Request) {
	h.catalog.ClearError()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getCart(w http.ResponseWriter, _ *http.Request) {
	h.writeCart(w)
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.cart.AddProduct)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.cart.RemoveProduct)
}

func (h *Handler) increaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.cart.IncreaseProductQuantity)
}

func (h *Handler) decreaseQuantity(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, h.cart.DecreaseProductQuantity)
}

// mutateCart decodes and validates a cart line from the request body,
// applies op, and writes the updated cart.
func (h *Handler) mutateCart(w http.ResponseWriter, r *http.Request, op func(domain.CartProduct) error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body", nil)
		return
	}

	raw, err := rawjson.Object(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "request body is not a JSON object", nil)
		return
	}

	res := validate.CartProduct(raw)
	if !res.Valid {
		writeError(w, http.StatusUnprocessableEntity, "invalid cart product", res.Errors)
		return
	}

	if err := op(res.Product); err != nil {
		h.writeCartError(w, err)
		return
	}
	h.writeCart(w)
}

func (h *Handler) writeCartError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *cart.InvalidProductError:
		writeError(w, http.StatusUnprocessableEntity, "invalid cart product", e.Reasons)
	default:
		// Capacity and quantity ceilings are client-resolvable conflicts.
		writeError(w, http.StatusConflict, err.Error(), nil)
	}
}

func (h *Handler) writeCatalogState(w http.ResponseWriter) {
	products := h.catalog.Products()
	apiErr := h.catalog.Err()

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("products", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range products {
					encodeProduct(e, products[i])
				}
			})
		})
		e.Field("count", func(e *jx.Encoder) { e.Int(len(products)) })
		e.Field("loading", func(e *jx.Encoder) { e.Bool(h.catalog.Loading()) })
		e.Field("error", func(e *jx.Encoder) { encodeError(e, apiErr) })
	})

	status := http.StatusOK
	if apiErr != nil {
		status = statusForError(apiErr)
	}
	writeJSON(w, status, e.Bytes())
}

func (h *Handler) writeCart(w http.ResponseWriter) {
	lines := h.cart.Products()
	total := h.cart.Total()

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range lines {
					encodeCartLine(e, lines[i])
				}
			})
		})
		e.Field("total", func(e *jx.Encoder) { encodeTotal(e, total) })
	})
	writeJSON(w, http.StatusOK, e.Bytes())
}

// statusForError maps the displayable error surface to an HTTP status for
// API consumers.
func statusForError(err *apierror.Error) int {
	switch err.Surface() {
	case apierror.KindValidation:
		return http.StatusBadGateway
	case apierror.KindNetwork:
		return http.StatusBadGateway
	case apierror.KindServer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string, details []string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		if len(details) > 0 {
			e.Field("details", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, d := range details {
						e.Str(d)
					}
				})
			})
		}
	})
	writeJSON(w, status, e.Bytes())
}
