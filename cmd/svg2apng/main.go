package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ivlev/svg2apng/internal/config"
	"github.com/ivlev/svg2apng/internal/encoder"
	"github.com/ivlev/svg2apng/internal/engine"
	"github.com/ivlev/svg2apng/internal/renderer"
	"github.com/ivlev/svg2apng/internal/source"
	"github.com/ivlev/svg2apng/internal/system"
)

var buildVersion = "dev"

func main() {
	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits()

	configPtr := flag.String("config", "", "Путь к YAML-конфигу (опционально)")
	inputPtr := flag.String("input", "", "Папка с *-animated.svg (по умолчанию: input/icons)")
	sizePtr := flag.Int("size", 0, "Размер иконки в пикселях (по умолчанию: 128)")
	fpsPtr := flag.Int("fps", 0, "Частота кадров (по умолчанию: 20)")
	manifestPtr := flag.String("manifest", "", "Путь для YAML-манифеста результатов (опционально)")
	workersPtr := flag.Int("encode-workers", 0, "Параллельных энкодеров APNG")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")

	flag.Parse()

	cfg := config.Default()
	if *configPtr != "" {
		loaded, err := config.Load(*configPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка чтения конфига: %v", err)
		}
		cfg = loaded
	}

	// Флаги перекрывают конфиг
	if *inputPtr != "" {
		cfg.InputDir = *inputPtr
	}
	if *sizePtr > 0 {
		cfg.Size = *sizePtr
	}
	if *fpsPtr > 0 {
		cfg.FPS = *fpsPtr
	}
	if *manifestPtr != "" {
		cfg.ManifestPath = *manifestPtr
	}
	if *workersPtr > 0 {
		cfg.EncodeWorkers = *workersPtr
	}
	if *statsPtr {
		cfg.ShowStats = true
	}
	cfg.BuildVersion = buildVersion

	// Создаем входную папку, если её нет
	os.MkdirAll(cfg.InputDir, 0755)

	src, err := source.NewDirSource(cfg.InputDir, cfg.AnimatedMarker)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	fmt.Printf("[*] Папка: %s | Размер: %dx%d @ %d FPS\n", cfg.InputDir, cfg.Size, cfg.Size, cfg.FPS)

	// Браузер живет весь прогон: запускается один раз,
	// освобождается гарантированно. Без него работа невозможна.
	loadSettle := time.Duration(cfg.LoadSettleMS) * time.Millisecond
	seekSettle := time.Duration(cfg.SeekSettleMS) * time.Millisecond
	page, err := renderer.Launch(context.Background(), loadSettle, seekSettle)
	if err != nil {
		log.Fatalf("[-] Ошибка запуска браузера: %v", err)
	}
	defer page.Close()

	project := engine.NewProject(cfg, src, page, encoder.APNG{})
	if err := project.Run(); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}
}
