package jwtcodec

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DecodeRequest is the JSON body accepted by the decode endpoint
type DecodeRequest struct {
	Token  string `json:"token" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

// RegisterRoutes mounts POST /encode and POST /decode on r.
// Both endpoints answer with a Response record.
func RegisterRoutes(r gin.IRouter, codec *Codec) {
	r.POST("/encode", EncodeHandler(codec))
	r.POST("/decode", DecodeHandler(codec))
}

// EncodeHandler encodes the JSON object in the request body as claims input
func EncodeHandler(codec *Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithRequestID(c.Request.Context(), requestIDFrom(c))

		// UseNumber keeps exp/iat/nbf exact beyond float64 precision
		var raw map[string]any
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil || raw == nil {
			c.JSON(http.StatusBadRequest, codec.errorResponse(invalidType("body", err)))
			return
		}

		resp := codec.encodeInput(ctx, raw)
		if resp.Error {
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// DecodeHandler verifies the token in the request body with its secret
func DecodeHandler(codec *Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithRequestID(c.Request.Context(), requestIDFrom(c))

		var req DecodeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, codec.errorResponse(invalidType("body", err)))
			return
		}

		resp := codec.decodeInput(ctx, req.Token, req.Secret)
		if resp.Error {
			c.JSON(http.StatusUnauthorized, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// JWTAuth returns a Gin middleware that decodes the bearer token with key
// and stores the claims in the request context
func JWTAuth(codec *Codec, key VerificationKey) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID := requestIDFrom(c)
		ctx := WithRequestID(c.Request.Context(), requestID)

		token, err := extractToken(c.Request, codec.cfg)
		if err != nil {
			logSecurityEvent(codec.cfg.logger, newSecurityEvent("decode", requestID, "", nil, "", err, time.Since(startTime)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, buildErrorResponse(err, codec.cfg.errorDetail))
			return
		}

		claims, err := codec.DecodeContext(ctx, token, key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, buildErrorResponse(err, codec.cfg.errorDetail))
			return
		}

		c.Request = c.Request.WithContext(WithClaims(ctx, claims))
		c.Next()
	}
}

// buildErrorResponse constructs the 401 body for JWTAuth. The specific reason
// is only reported when detailed errors are enabled.
func buildErrorResponse(err error, detail bool) gin.H {
	reason := string(ErrDecodeFailed)
	if detail {
		reason = string(CodeOf(err))
	}
	return gin.H{
		"error":   "unauthorized",
		"reason":  reason,
		"message": publicMessage(err, detail),
	}
}

// requestIDFrom returns X-Request-ID or a fresh UUID
func requestIDFrom(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return requestID
}
