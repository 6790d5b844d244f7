// Command pipemagic runs a pipeline definition against an input image and
// writes the encoded output blob, grounded on the teacher's cmd/ggdemo
// main.go (flag-based CLI, same load/process/save invocation shape).
package main

import (
	"encoding/json"
	"flag"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/superhooman/pipemagic"
	_ "github.com/superhooman/pipemagic/executor"
	"github.com/superhooman/pipemagic/gpu"
)

func main() {
	var (
		pipelinePath = flag.String("pipeline", "", "path to pipeline.json")
		inputPath    = flag.String("input", "", "path to the input image")
		outputPath   = flag.String("output", "out.png", "path to write the encoded output")
		noGPU        = flag.Bool("no-gpu", false, "skip GPU acquisition, force CPU fallback paths")
	)
	flag.Parse()

	if *pipelinePath == "" || *inputPath == "" {
		log.Fatal("usage: pipemagic -pipeline pipeline.json -input in.png -output out.png")
	}

	pipelineBytes, err := os.ReadFile(*pipelinePath)
	if err != nil {
		log.Fatalf("read pipeline: %v", err)
	}
	var def pipemagic.PipelineDefinition
	if err := json.Unmarshal(pipelineBytes, &def); err != nil {
		log.Fatalf("parse pipeline: %v", err)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("open input: %v", err)
	}
	img, _, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		log.Fatalf("decode input: %v", err)
	}
	bm := pipemagic.FromImage(img)

	// device is left as an untyped nil (not a nil *gpu.Device) when GPU
	// acquisition is skipped or fails, so executors that check
	// ec.GPUDevice == nil see a real nil interface rather than a non-nil
	// interface wrapping a nil pointer.
	var device any
	if !*noGPU {
		if d, gpuErr := gpu.InitGPU(); gpuErr == nil {
			device = d
		} else {
			log.Printf("gpu unavailable, continuing with cpu fallback paths: %v", gpuErr)
		}
	}

	sched := pipemagic.NewScheduler()
	result, err := sched.Run(def, bm, device, pipemagic.Options{
		OnNodeStatus: func(nodeID string, status pipemagic.NodeStatus, nodeErr error) {
			if nodeErr != nil {
				log.Printf("node %s: %s (%v)", nodeID, status, nodeErr)
				return
			}
			log.Printf("node %s: %s", nodeID, status)
		},
	})
	if err != nil {
		log.Fatalf("run: %v", err)
	}

	if err := os.WriteFile(*outputPath, result.Blob, 0o644); err != nil {
		log.Fatalf("write output: %v", err)
	}
	log.Printf("wrote %s (%dx%d)", *outputPath, result.Width, result.Height)
}
