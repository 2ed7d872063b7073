// Command parity_check compares read endpoints between a primary deployment
// and an instance restored from a mirror tier, to verify the tiers converged.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"
)

type target struct {
	Path     string
	Critical bool
}

var targets = []target{
	{Path: "/api/v1/students", Critical: true},
	{Path: "/api/v1/courses", Critical: true},
	{Path: "/api/v1/enrollments", Critical: true},
	{Path: "/api/v1/assessments", Critical: true},
	{Path: "/api/v1/grades", Critical: true},
	{Path: "/api/v1/sync/status", Critical: false},
}

type comparison struct {
	Target        target
	PrimaryStatus int
	RestoredCode  int
	StatusMatch   bool
	BodyMatch     bool
	Err           error
}

func main() {
	var (
		primaryBase  string
		restoredBase string
		username     string
		password     string
		timeout      time.Duration
	)

	flag.StringVar(&primaryBase, "primary", "http://localhost:8080", "primary API base URL")
	flag.StringVar(&restoredBase, "restored", "http://localhost:8081", "restored API base URL")
	flag.StringVar(&username, "username", "admin", "admin username")
	flag.StringVar(&password, "password", "admin123", "admin password")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	primaryToken, err := login(client, primaryBase, username, password)
	if err != nil {
		log.Fatalf("login to primary: %v", err)
	}
	restoredToken, err := login(client, restoredBase, username, password)
	if err != nil {
		log.Fatalf("login to restored: %v", err)
	}

	failed := false
	for _, tgt := range targets {
		result := compare(client, tgt, primaryBase, primaryToken, restoredBase, restoredToken)
		report(result)
		if tgt.Critical && (result.Err != nil || !result.StatusMatch || !result.BodyMatch) {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func login(client *http.Client, base, username, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := client.Post(base+"/api/v1/auth/admin/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.Token == "" {
		return "", fmt.Errorf("no token in login response")
	}
	return envelope.Data.Token, nil
}

func compare(client *http.Client, tgt target, primaryBase, primaryToken, restoredBase, restoredToken string) comparison {
	result := comparison{Target: tgt}

	primaryStatus, primaryBody, err := fetch(client, primaryBase+tgt.Path, primaryToken)
	if err != nil {
		result.Err = fmt.Errorf("primary: %w", err)
		return result
	}
	restoredStatus, restoredBody, err := fetch(client, restoredBase+tgt.Path, restoredToken)
	if err != nil {
		result.Err = fmt.Errorf("restored: %w", err)
		return result
	}

	result.PrimaryStatus = primaryStatus
	result.RestoredCode = restoredStatus
	result.StatusMatch = primaryStatus == restoredStatus
	result.BodyMatch = bodiesEqual(primaryBody, restoredBody)
	return result
}

func fetch(client *http.Client, url, token string) (int, []byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	return resp.StatusCode, body, err
}

// bodiesEqual compares decoded JSON so formatting and key order are ignored.
// The sync status payload differs by timestamp, so lastSync is dropped first.
func bodiesEqual(a, b []byte) bool {
	var objA, objB map[string]interface{}
	if err := json.Unmarshal(a, &objA); err != nil {
		return bytes.Equal(a, b)
	}
	if err := json.Unmarshal(b, &objB); err != nil {
		return false
	}
	stripVolatile(objA)
	stripVolatile(objB)
	return reflect.DeepEqual(objA, objB)
}

func stripVolatile(envelope map[string]interface{}) {
	data, ok := envelope["data"].(map[string]interface{})
	if !ok {
		return
	}
	delete(data, "lastSync")
}

func report(result comparison) {
	status := "OK"
	detail := ""
	switch {
	case result.Err != nil:
		status = "ERROR"
		detail = result.Err.Error()
	case !result.StatusMatch:
		status = "STATUS MISMATCH"
		detail = fmt.Sprintf("primary=%d restored=%d", result.PrimaryStatus, result.RestoredCode)
	case !result.BodyMatch:
		status = "BODY MISMATCH"
	}

	line := fmt.Sprintf("%-30s %s", result.Target.Path, status)
	if detail != "" {
		line += " (" + detail + ")"
	}
	if result.Target.Critical && status != "OK" {
		line += " [critical]"
	}
	fmt.Println(strings.TrimSpace(line))
}
