package response

import "github.com/gin-gonic/gin"

// Resp 统一返回体：{success, data?, message?}，HTTP 状态码反映真实结果
type Resp struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK 成功响应
func OK(data any) Resp { return Resp{Success: true, Data: data} }

// OKMsg 成功并附带提示信息；data 为 nil 时只有 message（如删除）
func OKMsg(data any, msg string) Resp { return Resp{Success: true, Data: data, Message: msg} }

// Error 失败响应（customMsg 为空时用状态码默认文案）
func Error(status int, customMsg string) Resp {
	msg := customMsg
	if msg == "" {
		msg = DefaultMsg(status)
	}
	return Resp{Success: false, Message: msg}
}

// Abort 中间件里直接终止请求
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Error(status, msg))
}
