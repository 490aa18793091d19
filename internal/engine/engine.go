package engine

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/svg2apng/internal/analyzer"
	"github.com/ivlev/svg2apng/internal/config"
	"github.com/ivlev/svg2apng/internal/encoder"
	"github.com/ivlev/svg2apng/internal/report"
	"github.com/ivlev/svg2apng/internal/source"
	"github.com/ivlev/svg2apng/internal/system"
)

// Renderer абстрагирует вкладку браузера: один общий экземпляр,
// используемый строго последовательно для всех документов и кадров.
type Renderer interface {
	LoadDocument(markup string, size int) error
	Seek(ms float64) error
	Capture() ([]byte, error)
}

type Project struct {
	Config   *config.Config
	Source   source.Source
	Renderer Renderer
	Encoder  encoder.Encoder
}

func NewProject(cfg *config.Config, src source.Source, r Renderer, enc encoder.Encoder) *Project {
	return &Project{
		Config:   cfg,
		Source:   src,
		Renderer: r,
		Encoder:  enc,
	}
}

// sampled holds one document's ordered captures until they reach the encoder.
type sampled struct {
	index    int
	name     string
	captures [][]byte
	cycle    analyzer.Cycle
	plan     analyzer.Plan
}

// Run converts every document of the source. Rendering is sequential on the
// shared page; finished frame sequences are compressed by a small worker
// pool so encoding may overlap the next document's rendering. A failure of
// one document never aborts the batch.
func (p *Project) Run() error {
	startTime := time.Now()

	count := p.Source.Len()
	fmt.Printf("[*] Найдено анимированных SVG: %d\n", count)
	if count == 0 {
		return nil
	}

	workers := p.Config.EncodeWorkers
	if workers < 1 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)

	var mu sync.Mutex
	var icons []report.Icon
	failed := 0

	var renderTotal time.Duration

	for i := 0; i < count; i++ {
		renderStart := time.Now()
		doc, err := p.sampleDocument(i)
		renderTotal += time.Since(renderStart)
		if err != nil {
			log.Printf("[!] %s: %v", p.Source.Name(i), err)
			mu.Lock()
			failed++
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			if err := p.writeArtifact(doc); err != nil {
				log.Printf("[!] %s: %v", doc.name, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			icons = append(icons, report.Icon{
				Name:       doc.name,
				Input:      p.Source.Name(doc.index) + p.Config.AnimatedMarker + ".svg",
				Output:     p.Source.OutputPath(doc.index),
				CycleMS:    doc.cycle.MS,
				FrameCount: doc.plan.FrameCount,
				Capped:     doc.cycle.Capped,
			})
			mu.Unlock()
			return nil
		})
	}

	g.Wait()

	if p.Config.ManifestPath != "" && len(icons) > 0 {
		sort.Slice(icons, func(a, b int) bool { return icons[a].Name < icons[b].Name })
		m := &report.Manifest{Version: "1.0", Icons: icons}
		if err := report.WriteManifest(m, p.Config.ManifestPath); err != nil {
			log.Printf("[!] Не удалось записать манифест: %v", err)
		} else {
			fmt.Printf("[*] Манифест: %s\n", p.Config.ManifestPath)
		}
	}

	fmt.Printf("[+++] Готово: %d из %d", len(icons), count)
	if failed > 0 {
		fmt.Printf(" (ошибок: %d)", failed)
	}
	fmt.Println()

	if p.Config.ShowStats {
		p.printStats(startTime, renderTotal, len(icons))
	}

	return nil
}

// sampleDocument drives the shared page through one full animation cycle of
// document i and returns the ordered captures.
func (p *Project) sampleDocument(i int) (*sampled, error) {
	name := p.Source.Name(i)

	markup, err := p.Source.Markup(i)
	if err != nil {
		return nil, fmt.Errorf("чтение: %w", err)
	}

	timings := analyzer.Extract(markup)
	cycle := analyzer.ComputeCycle(timings.Durations)
	if cycle.Capped {
		log.Printf("[!] %s: общий период превышает %dмс, цикл усечен, зацикливание будет неточным", name, analyzer.MaxCycleMS)
	}

	plan := analyzer.NewPlan(cycle.MS, timings.MaxDelay(), p.Config.FPS)
	if plan.FrameCount == 0 {
		return nil, fmt.Errorf("цикл %dмс короче кадра (%.0fмс)", cycle.MS, plan.IntervalMS)
	}

	fmt.Printf("[*] %s: цикл=%dмс, старт=%dмс, кадров=%d\n", name, cycle.MS, plan.StartMS, plan.FrameCount)

	if err := p.Renderer.LoadDocument(markup, p.Config.Size); err != nil {
		return nil, fmt.Errorf("загрузка документа: %w", err)
	}

	captures := make([][]byte, 0, plan.FrameCount)
	for _, t := range plan.Times() {
		if err := p.Renderer.Seek(t); err != nil {
			return nil, fmt.Errorf("перемотка на %.0fмс: %w", t, err)
		}
		shot, err := p.Renderer.Capture()
		if err != nil {
			return nil, fmt.Errorf("снимок на %.0fмс: %w", t, err)
		}
		captures = append(captures, shot)
	}

	return &sampled{
		index:    i,
		name:     name,
		captures: captures,
		cycle:    cycle,
		plan:     plan,
	}, nil
}

// writeArtifact encodes the capture sequence and overwrites the output file.
func (p *Project) writeArtifact(doc *sampled) error {
	outPath := p.Source.OutputPath(doc.index)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("создание %s: %w", outPath, err)
	}

	if err := p.Encoder.Encode(f, doc.captures, p.Config.Size, doc.plan.IntervalMS); err != nil {
		f.Close()
		return fmt.Errorf("кодирование: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	if info, err := os.Stat(outPath); err == nil {
		fmt.Printf("[>] %s (%d кадров, %.1f KB)\n", outPath, doc.plan.FrameCount, float64(info.Size())/1024)
	}
	return nil
}

func (p *Project) printStats(startTime time.Time, renderTotal time.Duration, converted int) {
	total := time.Since(startTime)

	memLine := "n/a"
	if mb, err := system.ProcessMemoryMB(); err == nil {
		memLine = fmt.Sprintf("%.1f MB", mb)
	}

	fmt.Printf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Rendering: %.2fs\n"+
			"Icons/s: %.2f\n"+
			"Process RSS: %s\n"+
			"----------------------------\n",
		p.Config.BuildVersion, total.Seconds(), renderTotal.Seconds(),
		float64(converted)/total.Seconds(), memLine,
	)
}
