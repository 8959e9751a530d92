package service

import (
	"net/http"
	"strconv"

	"github.com/ruudy-sib/hooktrap/internal/domain/entity"
	"github.com/ruudy-sib/hooktrap/internal/domain/simulation"
)

const (
	statusCaptured             = "captured"
	statusCapturedAfterTimeout = "captured_after_timeout"
	messageSimulatedFailure    = "Simulated failure"
	messageMissingSignature    = "Missing X-Webhook-Signature header"
)

func capturedOutcome(rec *entity.CapturedRequest) *entity.Outcome {
	return &entity.Outcome{
		Status: http.StatusOK,
		Payload: entity.CapturedPayload{
			Status:    statusCaptured,
			SessionID: rec.SessionID,
			WebhookID: strconv.FormatInt(rec.ID, 10),
		},
		Record: rec,
	}
}

func simulatedErrorOutcome(d simulation.Decision) *entity.Outcome {
	return &entity.Outcome{
		Status:  d.Status,
		Payload: entity.ErrorPayload{Error: d.Message},
	}
}

func timeoutOutcome() *entity.Outcome {
	return &entity.Outcome{
		Status:  http.StatusOK,
		Payload: entity.StatusPayload{Status: statusCapturedAfterTimeout},
	}
}

func retryFailureOutcome(d simulation.Decision) *entity.Outcome {
	return &entity.Outcome{
		Status: http.StatusInternalServerError,
		Payload: entity.RetryFailurePayload{
			Error:            messageSimulatedFailure,
			Attempt:          d.Attempt,
			WillSucceedAfter: d.WillSucceedAfter,
		},
		Record: d.Record,
	}
}

func missingSignatureOutcome() *entity.Outcome {
	return &entity.Outcome{
		Status:  http.StatusUnauthorized,
		Payload: entity.ErrorPayload{Error: messageMissingSignature},
	}
}
