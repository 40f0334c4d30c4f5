package httpapi

import (
	"encoding/json"

	"browser-task/internal/application/port/input"
	"browser-task/internal/domain/entity"
)

type RunRequest struct {
	Goal    string `json:"goal"`
	Product string `json:"product,omitempty"`
}

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// RunResponse carries price only on success and error only on failure.
type RunResponse struct {
	Success bool        `json:"success"`
	Price   json.Number `json:"price,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`

	Goal    string `json:"goal,omitempty"`
	Product string `json:"product,omitempty"`
	RunID   string `json:"run_id,omitempty"`
}

func newRunResponse(res *input.RunResult) RunResponse {
	resp := RunResponse{
		Goal:    res.Goal,
		Product: res.Product,
		RunID:   res.RunID,
	}
	if price, ok := res.Result.Value(); ok {
		resp.Success = true
		resp.Price = json.Number(price.String())
		return resp
	}

	failure := res.Result.Err()
	resp.Error = &ErrorBody{Kind: failure.Kind.String(), Message: failure.Message}
	return resp
}

func errorResponse(kind entity.ErrorKind, message string) RunResponse {
	return RunResponse{
		Error: &ErrorBody{Kind: kind.String(), Message: message},
	}
}
