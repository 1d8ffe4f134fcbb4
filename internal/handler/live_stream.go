package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autostrada/auction-api/internal/live"
	"github.com/autostrada/auction-api/internal/repository"
)

// keepAliveInterval spaces the SSE comment lines that keep proxies from
// timing out an idle stream.
const keepAliveInterval = 25 * time.Second

// LiveStreamHandler streams bid and close events for one auction over
// Server-Sent Events.  The stream carries no replay: clients fetch the
// current state over REST first and then attach.
type LiveStreamHandler struct {
	Auctions *repository.AuctionRepo
	Hub      *live.Hub
}

func NewLiveStreamHandler(a *repository.AuctionRepo, hub *live.Hub) *LiveStreamHandler {
	return &LiveStreamHandler{Auctions: a, Hub: hub}
}

// Stream subscribes the caller to an auction's event group and writes
// events until the client disconnects or the auction reaches a terminal
// state.
func (h *LiveStreamHandler) Stream(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx := c.Request().Context()
	a, err := h.Auctions.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrAuctionNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !publicStatuses[a.Status] {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "auction not found"})
	}
	if a.Status.Terminal() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "auction is already closed"})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)

	flusher, ok := res.Writer.(http.Flusher)
	if !ok {
		return echo.NewHTTPError(http.StatusInternalServerError, "streaming unsupported")
	}

	events, unsubscribe := h.Hub.Subscribe(id)
	defer unsubscribe()

	// Initial comment so the client sees the stream is open.
	fmt.Fprintf(res, ": connected auction=%d\n\n", id)
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-keepAlive.C:
			fmt.Fprint(res, ": keep-alive\n\n")
			flusher.Flush()
		case ev, open := <-events:
			if !open {
				return nil
			}
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(res, "event: %s\ndata: %s\n\n", ev.Type, payload)
			flusher.Flush()
			if ev.Type == "closed" {
				return nil
			}
		}
	}
}
