package main

import (
	"flag"
	"log"
	"net/http"
	// _ "net/http/pprof"
	"os/exec"
	"runtime"
	"time"

	"xionghan/internal/engine"
	"xionghan/internal/mcts"
	httpserver "xionghan/internal/server/http"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 不阻塞，不关心错误（某些服务器环境可能无图形界面）
}

func main() {
	addr := flag.String("addr", ":2888", "listen address")
	webDir := flag.String("web", "./web", "directory with index.html / js / svg")
	webMobileDir := flag.String("web-mobile", "", "directory with the mobile UI assets (defaults to -web)")
	modelPath := flag.String("model", "xionghan.onnx", "path to ONNX model file")
	libPath := flag.String("lib", "onnxruntime.dll", "path to onnxruntime.dll")
	useNN := flag.Bool("nn", true, "use the neural network evaluator instead of the heuristic")
	threads := flag.Int("threads", 4, "number of concurrent MCTS descent workers")
	playouts := flag.Int("playouts", 0, "playout budget per move (0 = unbounded, governed by each request's time_ms)")
	resignPct := flag.Int("resign-pct", 1, "resign once the best move's win probability falls below this percentage")
	cpuct := flag.Float64("cpuct", mcts.DefaultConfig().CPuct, "PUCT exploration constant")
	flag.Parse()

	mux := http.NewServeMux()

	cfg := engine.DefaultConfig()
	cfg.MCTS.NumThreads = *threads
	cfg.MCTS.MaxPlayouts = *playouts
	cfg.MCTS.ResignPct = *resignPct
	cfg.MCTS.CPuct = *cpuct
	cfg.UseNN = *useNN
	cfg.ModelPath = *modelPath
	cfg.LibPath = *libPath

	if err := httpserver.ConfigureEngine(cfg); err != nil {
		log.Fatalf("engine: init failed: %v", err)
	}

	h := httpserver.NewHandler()
	mux.Handle("/api/", h)

	httpserver.RegisterStaticRoutes(mux, *webDir, *webMobileDir)

	log.Printf("listening on %s, serving desktop assets from %s", *addr, *webDir)

	// ⭐ 延迟 100ms 打开默认浏览器，否则可能服务器未启动完成
	go func() {
		time.Sleep(100 * time.Millisecond)
		openBrowser("http://127.0.0.1" + *addr)
	}()

	if err := http.ListenAndServe(*addr, mux); err != nil {
		log.Fatal(err)
	}
}
