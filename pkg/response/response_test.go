package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]interface{}) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	fn(c)

	var body map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestSuccessCarriesData(t *testing.T) {
	w, body := record(func(c *gin.Context) { Success(c, gin.H{"answer": "好"}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, CodeSuccess, body["code"])
	require.Contains(t, body, "data")
	assert.Equal(t, "好", body["data"].(map[string]interface{})["answer"])
}

func TestErrorsOmitData(t *testing.T) {
	w, body := record(func(c *gin.Context) { BadRequestWithCode(c, CodeRemindInPast, "提醒时间已经过去了") })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, CodeRemindInPast, body["code"])
	assert.NotContains(t, body, "data")

	w, body = record(UserNotFound)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.EqualValues(t, CodeUserNotFound, body["code"])

	w, _ = record(PasswordWrong)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
