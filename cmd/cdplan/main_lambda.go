//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"cooldown-planner/fight"
	"cooldown-planner/internal/config"
	"cooldown-planner/internal/report"
	"cooldown-planner/optimizer"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// optimizeRequest carries a fight in the same shape as a fight file. The
// optional config uses the YAML config keys; JSON is valid YAML.
type optimizeRequest struct {
	Fight  json.RawMessage `json:"fight"`
	Config json.RawMessage `json:"config"`
}

type optimizeResult struct {
	Plan   *optimizer.Plan `json:"plan"`
	Detail string          `json:"detail"`
}

var log = newLogger(os.Stderr, os.Getenv("CDPLAN_VERBOSE") != "", true)

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req optimizeRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}
	if len(req.Fight) == 0 {
		return errResp(400, "missing fight field")
	}
	m, err := fight.Parse(string(req.Fight))
	if err != nil {
		return errResp(422, err.Error())
	}

	cfg := config.Default()
	if len(req.Config) > 0 {
		if cfg, err = config.FromYAML(req.Config); err != nil {
			return errResp(400, err.Error())
		}
	}
	runs, err := cfg.Runs()
	if err != nil {
		return errResp(400, err.Error())
	}

	// the invocation deadline bounds the search through ctx
	plan, err := solve(ctx, m, runs)
	if err != nil {
		return errResp(500, err.Error())
	}
	log.Info("plan ready", "fight", m.ID(), "strategy", plan.Strategy, "score", plan.Score,
		"assignments", len(plan.Assignments), "exhausted", plan.Exhausted)

	respJSON, _ := json.Marshal(optimizeResult{Plan: plan, Detail: report.FormatPlan(plan, m)})
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	lambda.Start(handler)
}
