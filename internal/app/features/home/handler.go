package home

import (
	"net/http"

	apierrors "github.com/dalemusser/nyaysahayak/internal/app/features/errors"
	"go.uber.org/zap"
)

// Banner is the root endpoint's message.
const Banner = "Nyay Sahayak API is running! 🚀"

// Handler serves the service banner.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / - banner                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteJSON(w, http.StatusOK, map[string]string{"message": Banner})
}
