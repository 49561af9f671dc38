package adaptor

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"

	"staynest/internal/data/entity"
	"staynest/internal/usecase"
	"staynest/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleServiceError maps a typed service error onto the response envelope.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	switch appErr.Kind {
	case utils.KindValidation, utils.KindConflict, utils.KindInvalidState:
		log.Warn(operation+" rejected",
			zap.String("kind", string(appErr.Kind)),
			zap.String("reason", appErr.Message))
		utils.ResponseBadRequest(w, appErr.Message, nil)

	case utils.KindNotFound:
		log.Warn(operation+" failed - not found", zap.String("reason", appErr.Message))
		utils.ResponseNotFound(w, appErr.Message)

	case utils.KindForbidden:
		log.Warn(operation+" failed - forbidden", zap.String("reason", appErr.Message))
		utils.ResponseForbidden(w, appErr.Message)

	case utils.KindUnauthorized:
		log.Warn(operation+" failed - unauthorized", zap.String("reason", appErr.Message))
		utils.ResponseUnauthorized(w, appErr.Message)

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, appErr.Message)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// actorFromRequest reads the caller identity set by the auth middleware.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return usecase.Actor{}, false
	}
	role, _ := utils.GetRoleFromContext(r.Context())
	return usecase.Actor{ID: userID, Role: entity.UserRole(role)}, true
}

func pathUUID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(chi.URLParam(r, param))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func clientInfo(r *http.Request) usecase.ClientInfo {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}
	return usecase.ClientInfo{UserAgent: r.UserAgent(), IPAddress: ip}
}
