package httpserver

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"xionghan/internal/engine"
	servergame "xionghan/internal/server/game"
	"xionghan/internal/xionghan"
)

var (
	games = servergame.NewManager()

	aiEngine *engine.Engine
)

func init() {
	var err error
	aiEngine, err = engine.NewEngine(engine.DefaultConfig())
	if err != nil {
		log.Fatalf("engine: init failed: %v", err)
	}
}

func init() {
	rand.Seed(time.Now().UnixNano())
}

// Handler 实现 http.Handler，用于 /api/* 路由
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Engine() *engine.Engine {
	return aiEngine
}

// ConfigureEngine rebuilds the package-level engine used by /api/ai_move,
// letting main() enable the neural-network evaluator and tune MCTS knobs
// before serving any requests.
func ConfigureEngine(cfg engine.Config) error {
	e, err := engine.NewEngine(cfg)
	if err != nil {
		return err
	}
	aiEngine = e
	return nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/new_game":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handleNewGame(w, r)

	case "/api/play":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handlePlay(w, r)

	case "/api/state":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handleState(w, r)

	case "/api/ai_move": // 新增
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handleAiMove(w, r)

	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	g := games.NewGame()
	legal := g.Pos.GenerateLegalMoves(false)

	resp := NewGameResponse{
		GameID:     g.ID,
		Position:   g.Pos.Encode(),
		ToMove:     sideToInt(g.Pos.SideToMove),
		LegalMoves: movesToDTO(legal),
	}
	writeJSON(w, resp)
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	g, err := games.Get(req.GameID)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	pos := g.Pos
	legal := pos.GenerateLegalMoves(false)

	// 确认这步是不是合法招之一
	var found *xionghan.Move
	for i := range legal {
		if legal[i].From == req.Move.From && legal[i].To == req.Move.To {
			found = &legal[i]
			break
		}
	}
	if found == nil {
		http.Error(w, "illegal move", http.StatusBadRequest)
		return
	}

	newPos, ok2 := pos.ApplyMove(*found)
	if !ok2 {
		http.Error(w, "apply move failed", http.StatusInternalServerError)
		return
	}

	// 更新对局
	if err := games.Update(req.GameID, newPos); err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}
	legal2 := newPos.GenerateLegalMoves(false)

	status := "ongoing"
	// TODO: 以后加上将死 / 和棋判断

	resp := PlayResponse{
		Position:   newPos.Encode(),
		ToMove:     sideToInt(newPos.SideToMove),
		LegalMoves: movesToDTO(legal2),
		Status:     status,
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("writeJSON error:", err)
	}
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	g, err := games.Get(req.GameID)
	if err != nil {
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	pos := g.Pos
	legal := pos.GenerateLegalMoves(false)

	status := "ongoing" // 以后你可以在 Game 里存状态，这里直接返回

	resp := StateResponse{
		Position:   pos.Encode(),
		ToMove:     sideToInt(pos.SideToMove),
		LegalMoves: movesToDTO(legal),
		Status:     status,
	}
	writeJSON(w, resp)
}

func (h *Handler) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req AiMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	if req.Position == "" {
		http.Error(w, "missing position", http.StatusBadRequest)
		return
	}

	// ===== 1. 从字符串局面还原 Position =====
	// 这里假设你有类似这样的函数：
	//   func DecodePosition(enc string) (*Position, error)
	// 如果你实际名字不同，在这里改一下即可。
	pos, err := xionghan.DecodePosition(req.Position)
	if err != nil {
		http.Error(w, "invalid position", http.StatusBadRequest)
		return
	}

	// 设置轮到谁走（以请求参数为准）；若与 FEN 不同，同步重建 Hash 保持一致性。
	reqSide := intToSide(req.ToMove)
	if pos.SideToMove != reqSide {
		pos.SideToMove = reqSide
		pos.Hash = pos.CalculateHash()
	}

	adapted := xionghan.NewAdaptedPosition(pos)
	if len(adapted.LegalMoves()) == 0 {
		resp := AiMoveResponse{
			BestMove: MoveDTO{From: -1, To: -1},
			Position: pos.Encode(),
			ToMove:   sideToInt(pos.SideToMove),
			Status:   "no_moves",
		}
		writeJSON(w, resp)
		return
	}

	limit := 5 * time.Second
	if req.TimeMs > 0 {
		limit = time.Duration(req.TimeMs) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(r.Context(), limit)
	defer cancel()

	start := time.Now()
	analysis, err := aiEngine.Think(ctx, adapted, 0, req.MCTSSimulations)
	if err != nil {
		resp := AiMoveResponse{
			BestMove: MoveDTO{From: -1, To: -1},
			Position: pos.Encode(),
			ToMove:   sideToInt(pos.SideToMove),
			Status:   "nn_error",
		}
		writeJSON(w, resp)
		return
	}

	resp := AiMoveResponse{
		BestMove: MoveDTO{From: analysis.Move.From, To: analysis.Move.To},
		Nodes:    analysis.Nodes,
		TimeMs:   time.Since(start).Milliseconds(),
		Position: pos.Encode(),              // 仍是原局面
		ToMove:   sideToInt(pos.SideToMove), // 当前轮到谁
		Status:   "ok",
	}
	writeJSON(w, resp)
}
