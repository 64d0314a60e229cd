package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是合法 JSON: %v", err)
	}
	return body
}

func TestOK_WrapsData(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, gin.H{"success": true})

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	body := decode(t, w)
	if body["code"].(float64) != CodeOK {
		t.Errorf("期望 code=0，实际 %v", body["code"])
	}
	data := body["data"].(map[string]interface{})
	if data["success"] != true {
		t.Errorf("data 未正确透传: %v", data)
	}
}

func TestBadGateway(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	BadGateway(c, CodeUpstream, "AI 服务返回空结果")

	if w.Code != http.StatusBadGateway {
		t.Fatalf("期望 502，实际 %d", w.Code)
	}
	body := decode(t, w)
	if _, ok := body["data"]; ok {
		t.Error("错误响应不应包含 data 字段")
	}
	if body["message"] != "AI 服务返回空结果" {
		t.Errorf("message 不符: %v", body["message"])
	}
}
