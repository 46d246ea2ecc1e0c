package models

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResponse(t *testing.T) {
	testCode := http.StatusCreated
	testData := map[string]string{"key": "value"}
	testText := "Resource Created"

	before := time.Now().UnixMilli()
	response := NewResponse(testCode, testData, testText)
	after := time.Now().UnixMilli()

	assert.Equal(t, testCode, response.Code, "Response code should match input")
	assert.Equal(t, testData, response.Data, "Response data should match input")
	assert.Equal(t, testText, response.Text, "Response text should match input")
	assert.Equal(t, 1, response.Version)
	assert.GreaterOrEqual(t, response.CurrentTime, before)
	assert.LessOrEqual(t, response.CurrentTime, after)
}

func TestNewOKResponse(t *testing.T) {
	testData := map[string]string{"status": "all good"}

	response := NewOKResponse(testData)

	assert.Equal(t, http.StatusOK, response.Code, "Response code should be StatusOK")
	assert.Equal(t, "OK", response.Text, "Response text should be 'OK'")
	assert.Equal(t, testData, response.Data, "Response data should match input")
}

func TestNewEntryResponse(t *testing.T) {
	entry := StopRecord{StopID: "1234", Name: "Queen St West at Spadina"}

	response := NewEntryResponse(entry)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok, "Response data should be a map")
	assert.Equal(t, entry, data["entry"])
}

func TestResponseModelJSON(t *testing.T) {
	response := ResponseModel{
		Code:        http.StatusOK,
		CurrentTime: 1746324484528,
		Data:        map[string]string{"k": "v"},
		Text:        "OK",
		Version:     1,
	}

	b, err := json.Marshal(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":200,"currentTime":1746324484528,"data":{"k":"v"},"text":"OK","version":1}`, string(b))
}
