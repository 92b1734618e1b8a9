// Package main 提供传感器模拟器命令行入口
//
// 多个模拟传感器按固定间隔发布 Reading 事件；recorder Handling 聚合读数，
// threshold Handling 把越界读数转为 Alarm。收到 Ctrl+C、运行时间到期
// 或告警数达到上限（通过 Exit 事件）后停止 Engine 并输出汇总。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-dispatch"
	"github.com/dep2p/go-dispatch/pkg/lib/log"
)

var logger = log.Logger("sensor-sim")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile  = flag.String("config", "", "配置文件路径（JSON）")
	sensors     = flag.Int("sensors", 4, "传感器数量")
	interval    = flag.Duration("interval", 100*time.Millisecond, "每个传感器的发布间隔")
	threshold   = flag.Float64("threshold", 100, "告警阈值")
	maxAlarms   = flag.Int("max-alarms", 0, "告警达到该数量后退出（0 = 不限）")
	duration    = flag.Duration("duration", 0, "运行时长（0 = 直到 Ctrl+C）")
	metricsAddr = flag.String("metrics-addr", "", "Prometheus 指标监听地址，例如 :9100")
	showHelp    = flag.Bool("help", false, "显示帮助信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showHelp {
		printHelp()
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	params := simParams{
		sensors:   *sensors,
		interval:  *interval,
		threshold: *threshold,
		maxAlarms: *maxAlarms,
		duration:  *duration,
	}
	if err := applySimEnv(&params, osLookup); err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	overrideFromFlags(&params)
	if err := params.validate(); err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	eng, err := dispatch.New(buildOptions(cfg, *configFile != "", *metricsAddr)...)
	if err != nil {
		return fmt.Errorf("创建失败: %w", err)
	}
	defer func() { _ = eng.Close() }()

	sim, err := newSimulator(eng, params, clock.New())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr, eng)
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
			defer done()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		sim.run(ctx)
	}()

	fmt.Printf("传感器模拟器已启动（%d 个传感器，间隔 %s），按 Ctrl+C 退出\n", params.sensors, params.interval)
	reason := waitForExit(eng, params.duration)
	fmt.Printf("\n正在停止: %s\n", reason)

	cancel()
	<-simDone

	// 等待时间受 dispatcher.stop_timeout 限制
	if err := eng.Stop(context.Background()); err != nil {
		return fmt.Errorf("停止未完成: %w", err)
	}

	for _, line := range sim.report() {
		fmt.Println(line)
	}
	return nil
}

// overrideFromFlags 显式设置的命令行参数覆盖环境变量
func overrideFromFlags(p *simParams) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sensors":
			p.sensors = *sensors
		case "interval":
			p.interval = *interval
		case "threshold":
			p.threshold = *threshold
		}
	})
}

// waitForExit 等待信号、Exit 事件或运行时长到期，返回原因
func waitForExit(eng *dispatch.Engine, limit time.Duration) string {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	var timeout <-chan time.Time
	if limit > 0 {
		timer := time.NewTimer(limit)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case sig := <-signals:
		return "signal " + sig.String()
	case <-eng.ExitRequested():
		return eng.ExitReason()
	case <-timeout:
		return "duration elapsed"
	}
}

// serveMetrics 在 addr 上暴露 /metrics
func serveMetrics(addr string, eng *dispatch.Engine) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(eng.Gatherer(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("指标服务退出", "addr", addr, "error", err)
		}
	}()
	logger.Info("指标服务已启动", "addr", addr)
	return srv
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("sensor-sim - 事件调度器演示：传感器读数聚合与告警")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  sensor-sim [选项]")
	fmt.Println()
	fmt.Println("选项:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("环境变量:")
	fmt.Println("  DISPATCH_STOP_TIMEOUT     停止超时，例如 2s")
	fmt.Println("  DISPATCH_QUEUE_CAPACITY   队列容量")
	fmt.Println("  DISPATCH_WORKERS          recorder 工作者数量")
	fmt.Println("  DISPATCH_PUSH_POLICY      reject / block")
	fmt.Println("  DISPATCH_LOG_LEVEL        日志级别，例如 core/handling=debug,info")
	fmt.Println("  SENSOR_SIM_SENSORS        传感器数量")
	fmt.Println("  SENSOR_SIM_INTERVAL       发布间隔")
	fmt.Println("  SENSOR_SIM_THRESHOLD      告警阈值")
}
