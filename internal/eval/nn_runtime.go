package eval

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"xionghan/internal/xionghan"
)

// Input/output tensor shapes match the two-stage from/to policy network
// and 3-logit value head the model was trained with (engine/nneval.go).
const (
	numSpatialFeatures = 25
	numGlobalFeatures  = 19
	boardSize          = 13
	policySize         = boardSize*boardSize + 1
	maxBatchSize       = 64
	batchTimeout       = 1 * time.Millisecond
)

type nnRequest struct {
	pos          *xionghan.Position
	stage        int
	chosenSquare int
	result       chan *nnResult
}

// nnResult is one inference's raw output: a win-probability-from-own-side
// scalar and a square-policy vector whose meaning depends on which stage
// produced it (stage 0: from-square scores; stage 1: to-square scores for
// whichever from-square was passed in as chosenSquare).
type nnResult struct {
	ownWinProb float32
	policy     []float32
}

// nnRuntime owns one onnxruntime session and micro-batches concurrent
// evaluation requests onto it (spec.md's evaluator must tolerate concurrent
// callers; GPU inference is far more efficient batched).
type nnRuntime struct {
	session *ort.AdvancedSession
	queue   chan nnRequest

	binInput    []float32
	globalInput []float32
	policy      []float32
	value       []float32

	inputs  []ort.Value
	outputs []ort.Value

	totalItems   int64
	totalBatches int64
}

func newNNRuntime(modelPath, libPath string) (*nnRuntime, error) {
	resolvedModel, err := resolveModelPath(modelPath)
	if err != nil {
		return nil, err
	}
	resolvedLib, err := resolveORTSharedLibraryPath(libPath)
	if err != nil {
		return nil, err
	}

	absCachePath, _ := filepath.Abs("trt_cache")
	_ = os.MkdirAll(absCachePath, 0755)

	setNativeEnv("ORT_TENSORRT_ENGINE_CACHE_ENABLE", "1")
	setNativeEnv("ORT_TENSORRT_ENGINE_CACHE_PATH", absCachePath)
	setNativeEnv("ORT_TENSORRT_FP16_ENABLE", "1")
	setNativeEnv("ORT_TENSORRT_MAX_WORKSPACE_SIZE", "2147483648")
	setNativeEnv("ORT_LOGGING_LEVEL", "3")

	if !ort.IsInitialized() {
		configureORTSearchPath(filepath.Dir(resolvedLib))
		ort.SetSharedLibraryPath(resolvedLib)
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, fmt.Errorf("eval: onnxruntime init: %w", err)
		}
	}

	binInput := make([]float32, maxBatchSize*numSpatialFeatures*boardSize*boardSize)
	globalInput := make([]float32, maxBatchSize*numGlobalFeatures)
	policy := make([]float32, maxBatchSize*policySize)
	value := make([]float32, maxBatchSize*3)

	binShape := ort.NewShape(maxBatchSize, int64(numSpatialFeatures), int64(boardSize), int64(boardSize))
	globalShape := ort.NewShape(maxBatchSize, int64(numGlobalFeatures))
	policyShape := ort.NewShape(maxBatchSize, int64(policySize))
	valueShape := ort.NewShape(maxBatchSize, 3)

	inputTensor1, err := ort.NewTensor(binShape, binInput)
	if err != nil {
		return nil, err
	}
	inputTensor2, err := ort.NewTensor(globalShape, globalInput)
	if err != nil {
		return nil, err
	}
	outputTensor1, err := ort.NewTensor(policyShape, policy)
	if err != nil {
		return nil, err
	}
	outputTensor2, err := ort.NewTensor(valueShape, value)
	if err != nil {
		return nil, err
	}

	inputNames := []string{"bin_inputs", "global_inputs"}
	outputNames := []string{"policy", "value"}
	inputs := []ort.Value{inputTensor1, inputTensor2}
	outputs := []ort.Value{outputTensor1, outputTensor2}

	providers := []struct {
		name  string
		setup func(*ort.SessionOptions) error
	}{
		{"TensorRT", func(so *ort.SessionOptions) error {
			trtOpts, e := ort.NewTensorRTProviderOptions()
			if e != nil {
				return e
			}
			defer trtOpts.Destroy()
			trtOpts.Update(map[string]string{
				"device_id":               "0",
				"trt_engine_cache_enable": "1",
				"trt_engine_cache_path":   absCachePath,
				"trt_fp16_enable":         "1",
			})
			return so.AppendExecutionProviderTensorRT(trtOpts)
		}},
		{"CUDA", func(so *ort.SessionOptions) error {
			cudaOpts, e := ort.NewCUDAProviderOptions()
			if e != nil {
				return e
			}
			defer cudaOpts.Destroy()
			return so.AppendExecutionProviderCUDA(cudaOpts)
		}},
		{"DirectML", func(so *ort.SessionOptions) error {
			return so.AppendExecutionProviderDirectML(0)
		}},
		{"CPU", func(so *ort.SessionOptions) error { return nil }},
	}

	var session *ort.AdvancedSession
	var success bool
	for _, p := range providers {
		log.Printf("eval: attempting onnxruntime provider %s", p.name)
		so, err := ort.NewSessionOptions()
		if err != nil {
			continue
		}
		_ = so.SetLogSeverityLevel(3)

		if err := p.setup(so); err != nil {
			log.Printf("eval: provider %s setup failed: %v", p.name, err)
			so.Destroy()
			continue
		}
		s, errS := ort.NewAdvancedSession(resolvedModel, inputNames, outputNames, inputs, outputs, so)
		if errS != nil {
			log.Printf("eval: provider %s session creation failed: %v", p.name, errS)
			so.Destroy()
			continue
		}
		if errRun := s.Run(); errRun != nil {
			log.Printf("eval: provider %s warmup failed: %v", p.name, errRun)
			s.Destroy()
			so.Destroy()
			continue
		}
		log.Printf("eval: onnxruntime initialized with provider %s", p.name)
		session = s
		success = true
		so.Destroy()
		break
	}
	if !success {
		return nil, fmt.Errorf("eval: failed to initialize onnxruntime with any provider")
	}

	rt := &nnRuntime{
		session:     session,
		queue:       make(chan nnRequest, maxBatchSize*10),
		binInput:    binInput,
		globalInput: globalInput,
		policy:      policy,
		value:       value,
		inputs:      inputs,
		outputs:     outputs,
	}
	go rt.batchLoop()
	return rt, nil
}

func (rt *nnRuntime) Close() {
	if rt.session != nil {
		rt.session.Destroy()
	}
	for _, v := range rt.inputs {
		v.Destroy()
	}
	for _, v := range rt.outputs {
		v.Destroy()
	}
}

func (rt *nnRuntime) evaluateStage(pos *xionghan.Position, stage, chosenSquare int) (*nnResult, error) {
	resChan := make(chan *nnResult, 1)
	rt.queue <- nnRequest{pos: pos, stage: stage, chosenSquare: chosenSquare, result: resChan}
	res := <-resChan
	if res == nil {
		return nil, fmt.Errorf("eval: inference failed")
	}
	return res, nil
}

func (rt *nnRuntime) batchLoop() {
	requests := make([]nnRequest, 0, maxBatchSize)
	for {
		requests = requests[:0]
		req, ok := <-rt.queue
		if !ok {
			return
		}
		requests = append(requests, req)

		timeout := time.After(batchTimeout)
	collect:
		for len(requests) < maxBatchSize {
			select {
			case r := <-rt.queue:
				requests = append(requests, r)
			case <-timeout:
				break collect
			}
		}
		rt.processBatch(requests)
	}
}

func (rt *nnRuntime) processBatch(requests []nnRequest) {
	batchSize := len(requests)
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(idx int, r nnRequest) {
			defer wg.Done()
			rt.fillOne(idx, r.pos, r.stage, r.chosenSquare)
		}(i, req)
	}
	wg.Wait()

	if batchSize < maxBatchSize {
		rt.clearBatchTail(batchSize)
	}

	if err := rt.session.Run(); err != nil {
		log.Printf("eval: onnxruntime session run failed: %v", err)
		for _, req := range requests {
			req.result <- nil
		}
		return
	}

	rt.totalBatches++
	rt.totalItems += int64(batchSize)

	for i, req := range requests {
		v := rt.value[i*3 : i*3+3]
		maxLogit := v[0]
		if v[1] > maxLogit {
			maxLogit = v[1]
		}
		if v[2] > maxLogit {
			maxLogit = v[2]
		}
		e0 := math.Exp(float64(v[0] - maxLogit))
		e1 := math.Exp(float64(v[1] - maxLogit))
		e2 := math.Exp(float64(v[2] - maxLogit))
		sum := e0 + e1 + e2

		// The model's value head is fixed-perspective, not side-to-move
		// relative: logit 0 is always Black's win probability, logit 1 is
		// always Red's (engine/nneval.go's processBatch comment).
		blackWin := float32(e0 / sum)
		redWin := float32(e1 / sum)

		ownWin := redWin
		if req.pos.SideToMove == xionghan.Black {
			ownWin = blackWin
		}

		res := &nnResult{
			ownWinProb: ownWin,
			policy:     append([]float32(nil), rt.policy[i*policySize:(i+1)*policySize]...),
		}
		req.result <- res
	}
}

func (rt *nnRuntime) fillOne(batchIdx int, pos *xionghan.Position, stage, chosenSquare int) {
	planeSize := boardSize * boardSize
	spatialOffset := batchIdx * numSpatialFeatures * planeSize
	globalOffset := batchIdx * numGlobalFeatures

	subBin := rt.binInput[spatialOffset : spatialOffset+numSpatialFeatures*planeSize]
	for i := range subBin {
		subBin[i] = 0
	}
	subGlobal := rt.globalInput[globalOffset : globalOffset+numGlobalFeatures]
	for i := range subGlobal {
		subGlobal[i] = 0
	}

	pla := pos.SideToMove

	for i := 0; i < planeSize; i++ {
		subBin[i] = 1.0
	}

	for sq := 0; sq < xionghan.NumSquares; sq++ {
		pc := pos.Board.Squares[sq]
		if pc == 0 {
			continue
		}
		pt := pc.Type()
		side := pc.Side()

		var featureIdx int
		if side == pla {
			featureIdx = int(pt)
		} else {
			featureIdx = int(pt) + 11
		}
		if featureIdx < 23 {
			subBin[featureIdx*planeSize+sq] = 1.0
		}
	}

	if stage == 1 && chosenSquare >= 0 && chosenSquare < planeSize {
		subBin[23*planeSize+chosenSquare] = 1.0
	}

	if pla == xionghan.Black {
		subGlobal[0] = 1.0
	}
	subGlobal[1] = float32(stage)
	subGlobal[2] = 1.0
	subGlobal[3] = 1.0
	if boardSize%2 != 0 {
		subGlobal[7] = 1.0
		subGlobal[8] = 1.0
	}
}

func (rt *nnRuntime) clearBatchTail(startIdx int) {
	spatialSize := numSpatialFeatures * boardSize * boardSize
	for i := startIdx * spatialSize; i < maxBatchSize*spatialSize; i++ {
		rt.binInput[i] = 0
	}
	for i := startIdx * numGlobalFeatures; i < maxBatchSize*numGlobalFeatures; i++ {
		rt.globalInput[i] = 0
	}
}
