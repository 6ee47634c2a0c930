package public

import (
	"errors"

	"github.com/tresmontes-cajas/internal/http/response"
	"github.com/tresmontes-cajas/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCaptchaConfig tells the login form whether a captcha is required.
func (h *Handler) GetCaptchaConfig(c *gin.Context) {
	response.Success(c, gin.H{"enabled": h.CaptchaService != nil && h.CaptchaService.Enabled()})
}

// GetImageCaptcha issues an image captcha challenge.
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "error.captcha_unavailable", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			respondError(c, response.CodeBadRequest, "error.captcha_unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "error.captcha_generate_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}
