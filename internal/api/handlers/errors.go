package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/prodtrack/backend-go/internal/production"
	"github.com/andresuchdata/prodtrack/backend-go/internal/repository"
	"github.com/andresuchdata/prodtrack/backend-go/internal/service"
)

var badRequestErrors = []error{
	production.ErrInvalidMonthKey,
	production.ErrWeekOutOfRange,
	service.ErrInvalidDateRange,
	service.ErrInvalidMode,
	service.ErrInvalidPlan,
	service.ErrInvalidWorkDays,
}

func statusFor(err error) int {
	if errors.Is(err, repository.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, message string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
