package narration

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"narrator/internal/narrator"
)

const writeTimeout = 5 * time.Second

// Events 朗读进度推送
// @Summary      朗读进度推送（WebSocket）
// @Description  连接后先推送一次当前状态，之后推送每次状态更新与任务事件
// @Tags         朗读
// @Success      101  {string}  string  "Switching Protocols"
// @Router       /api/v1/narration/events [get]
func (h *Handler) Events(c *gin.Context) {
	// 长连接不受 http.Server 的 WriteTimeout 约束，写超时由 writeMessage 控制
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // 跨域由 CORS 中间件控制
	})
	if err != nil {
		log.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	messages, unsubscribe := h.narrationService.Subscribe()
	defer unsubscribe()

	// 客户端只接收，CloseRead 在连接断开时取消 ctx
	ctx := conn.CloseRead(c.Request.Context())

	status := h.narrationService.Status()
	if err := writeMessage(ctx, conn, narrator.Message{Type: "update", Update: &status.Update}); err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-messages:
			if !ok {
				conn.Close(websocket.StatusGoingAway, "narration closed")
				return
			}
			if err := writeMessage(ctx, conn, m); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				return
			}
		}
	}
}

func writeMessage(ctx context.Context, conn *websocket.Conn, m narrator.Message) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, m)
}
