package jwtcodec

import (
	"context"
	"fmt"
)

// SuccessMessage is the message of every successful Response
const SuccessMessage = "success"

// Response is the uniform result record returned by EncodeInput and DecodeInput
type Response struct {
	Error   bool    `json:"error"`
	Token   string  `json:"token"`
	Message string  `json:"message"`
	Data    *Output `json:"data,omitempty"`

	// Code carries the error code for Go callers; it is not serialized
	Code ErrorCode `json:"-"`
}

// EncodeInput encodes an untyped claims input carrying its own secret.
// It never panics and always returns a well-formed Response.
func (c *Codec) EncodeInput(raw map[string]any) Response {
	return c.encodeInput(context.Background(), raw)
}

// DecodeInput decodes token with an HMAC secret.
// It never panics and always returns a well-formed Response.
func (c *Codec) DecodeInput(token, secret string) Response {
	return c.decodeInput(context.Background(), token, secret)
}

func (c *Codec) encodeInput(ctx context.Context, raw map[string]any) (resp Response) {
	defer c.recoverResponse(&resp)

	in, err := FromInput(raw)
	if err != nil {
		return c.errorResponse(err)
	}
	key, err := in.SigningKey()
	if err != nil {
		return c.errorResponse(err)
	}
	token, err := c.EncodeContext(ctx, in.Claims, key)
	if err != nil {
		return c.errorResponse(err)
	}
	return Response{Token: token, Message: SuccessMessage}
}

func (c *Codec) decodeInput(ctx context.Context, token, secret string) (resp Response) {
	defer c.recoverResponse(&resp)

	claims, err := c.DecodeContext(ctx, token, HMACVerificationKey([]byte(secret)))
	if err != nil {
		if CodeOf(err) == ErrMissingSecret {
			err = NewCodecError(ErrDecodeFailed, "secret is required", err)
		}
		return c.errorResponse(err)
	}
	out := claims.Output()
	return Response{Message: SuccessMessage, Data: &out}
}

func (c *Codec) errorResponse(err error) Response {
	return Response{
		Error:   true,
		Message: publicMessage(err, c.cfg.errorDetail),
		Code:    CodeOf(err),
	}
}

func (c *Codec) recoverResponse(resp *Response) {
	if r := recover(); r != nil {
		if c.cfg.logger != nil {
			c.cfg.logger.Error("jwtcodec: recovered from panic", "panic", fmt.Sprint(r))
		}
		*resp = Response{Error: true, Message: "[UNKNOWN] internal error", Code: "UNKNOWN"}
	}
}
