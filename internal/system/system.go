package system

import (
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
)

// InitResourceLimits пытается увеличить лимит открытых файлов:
// headless Chromium держит много дескрипторов (сокеты, shm, профиль).
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось получить лимит файлов: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Не удалось установить лимит файлов: %v", err)
	}
}

// ProcessMemoryMB возвращает текущий RSS процесса в мегабайтах
// для отчета о производительности.
func ProcessMemoryMB() (float64, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, err
	}

	info, err := p.MemoryInfo()
	if err != nil {
		return 0, err
	}
	if info == nil {
		return 0, fmt.Errorf("нет данных о памяти")
	}

	return float64(info.RSS) / (1024 * 1024), nil
}
