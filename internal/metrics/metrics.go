// Package metrics 提供Prometheus文本格式监控指标
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// MetricsRegistry 指标注册表
type MetricsRegistry struct {
	counters   map[string]*Counter
	gauges     map[string]*Gauge
	histograms map[string]*Histogram
	mu         sync.RWMutex
}

// Counter 计数器
type Counter struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Gauge 仪表盘
type Gauge struct {
	Name   string
	Help   string
	Labels []string
	values map[string]float64
	mu     sync.RWMutex
}

// Histogram 直方图
type Histogram struct {
	Name    string
	Help    string
	Labels  []string
	Buckets []float64
	counts  map[string][]int
	sums    map[string]float64
	mu      sync.RWMutex
}

var (
	registry *MetricsRegistry
	once     sync.Once
)

// GetRegistry 获取全局注册表
func GetRegistry() *MetricsRegistry {
	once.Do(func() {
		registry = &MetricsRegistry{
			counters:   make(map[string]*Counter),
			gauges:     make(map[string]*Gauge),
			histograms: make(map[string]*Histogram),
		}
		initDefaultMetrics()
	})
	return registry
}

// initDefaultMetrics 初始化默认指标
func initDefaultMetrics() {
	// 请求计数器
	registry.NewCounter("yepai_http_requests_total", "HTTP请求总数", []string{"method", "path", "status"})

	// 请求延迟直方图
	registry.NewHistogram("yepai_http_request_duration_seconds", "HTTP请求延迟",
		[]string{"method", "path"},
		[]float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0})

	// 排班生成计数器
	registry.NewCounter("yepai_roster_generation_total", "排班生成次数", []string{"status"})

	// 排班生成延迟
	registry.NewHistogram("yepai_roster_generation_duration_seconds", "排班生成延迟",
		[]string{"status"},
		[]float64{0.1, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0, 180.0})

	// 冲突计数器
	registry.NewCounter("yepai_roster_conflicts_total", "校验冲突总数", []string{"kind", "severity"})

	// 修复计数器
	registry.NewCounter("yepai_roster_resolutions_total", "修复方案应用次数", []string{"result"})

	// 求解器状态
	registry.NewCounter("yepai_solver_runs_total", "求解器运行次数", []string{"status"})
}

// NewCounter 创建计数器
func (r *MetricsRegistry) NewCounter(name, help string, labels []string) *Counter {
	r.mu.Lock()
	defer r.mu.Unlock()

	counter := &Counter{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.counters[name] = counter
	return counter
}

// NewGauge 创建仪表盘
func (r *MetricsRegistry) NewGauge(name, help string, labels []string) *Gauge {
	r.mu.Lock()
	defer r.mu.Unlock()

	gauge := &Gauge{
		Name:   name,
		Help:   help,
		Labels: labels,
		values: make(map[string]float64),
	}
	r.gauges[name] = gauge
	return gauge
}

// NewHistogram 创建直方图
func (r *MetricsRegistry) NewHistogram(name, help string, labels []string, buckets []float64) *Histogram {
	r.mu.Lock()
	defer r.mu.Unlock()

	histogram := &Histogram{
		Name:    name,
		Help:    help,
		Labels:  labels,
		Buckets: buckets,
		counts:  make(map[string][]int),
		sums:    make(map[string]float64),
	}
	r.histograms[name] = histogram
	return histogram
}

// GetCounter 获取计数器
func (r *MetricsRegistry) GetCounter(name string) *Counter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.counters[name]
}

// GetHistogram 获取直方图
func (r *MetricsRegistry) GetHistogram(name string) *Histogram {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histograms[name]
}

// Inc 增加计数
func (c *Counter) Inc(labelValues ...string) {
	c.Add(1, labelValues...)
}

// Add 增加指定值
func (c *Counter) Add(value float64, labelValues ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[labelKey(labelValues)] += value
}

// Set 设置值
func (g *Gauge) Set(value float64, labelValues ...string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values[labelKey(labelValues)] = value
}

// Observe 记录观测值
func (h *Histogram) Observe(value float64, labelValues ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	key := labelKey(labelValues)

	if _, exists := h.counts[key]; !exists {
		h.counts[key] = make([]int, len(h.Buckets)+1)
	}

	for i, bucket := range h.Buckets {
		if value <= bucket {
			h.counts[key][i]++
		}
	}
	h.counts[key][len(h.Buckets)]++ // +Inf bucket

	h.sums[key] += value
}

// labelKey 生成标签键
func labelKey(labels []string) string {
	return strings.Join(labels, ",")
}

// renderLabels 渲染标签集
func renderLabels(names []string, key string) string {
	if len(names) == 0 {
		return ""
	}
	values := strings.Split(key, ",")
	pairs := make([]string, 0, len(names))
	for i, name := range names {
		v := ""
		if i < len(values) {
			v = values[i]
		}
		pairs = append(pairs, fmt.Sprintf("%s=%q", name, v))
	}
	return "{" + strings.Join(pairs, ",") + "}"
}

// sortedKeys 排序键保证输出稳定
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Handler 返回Prometheus格式的指标HTTP处理器
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		reg := GetRegistry()
		reg.mu.RLock()
		defer reg.mu.RUnlock()

		var b strings.Builder

		for _, c := range reg.counters {
			c.mu.RLock()
			fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s counter\n", c.Name, c.Help, c.Name)
			for _, key := range sortedKeys(c.values) {
				fmt.Fprintf(&b, "%s%s %g\n", c.Name, renderLabels(c.Labels, key), c.values[key])
			}
			c.mu.RUnlock()
		}

		for _, g := range reg.gauges {
			g.mu.RLock()
			fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s gauge\n", g.Name, g.Help, g.Name)
			for _, key := range sortedKeys(g.values) {
				fmt.Fprintf(&b, "%s%s %g\n", g.Name, renderLabels(g.Labels, key), g.values[key])
			}
			g.mu.RUnlock()
		}

		for _, h := range reg.histograms {
			h.mu.RLock()
			fmt.Fprintf(&b, "# HELP %s %s\n# TYPE %s histogram\n", h.Name, h.Help, h.Name)
			for key, counts := range h.counts {
				total := counts[len(h.Buckets)]
				for i, bucket := range h.Buckets {
					labels := renderBucketLabels(h.Labels, key, fmt.Sprintf("%g", bucket))
					fmt.Fprintf(&b, "%s_bucket%s %d\n", h.Name, labels, counts[i])
				}
				infLabels := renderBucketLabels(h.Labels, key, "+Inf")
				fmt.Fprintf(&b, "%s_bucket%s %d\n", h.Name, infLabels, total)
				fmt.Fprintf(&b, "%s_sum%s %g\n", h.Name, renderLabels(h.Labels, key), h.sums[key])
				fmt.Fprintf(&b, "%s_count%s %d\n", h.Name, renderLabels(h.Labels, key), total)
			}
			h.mu.RUnlock()
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(b.String()))
	})
}

// renderBucketLabels 渲染带 le 的标签集
func renderBucketLabels(names []string, key, le string) string {
	base := renderLabels(names, key)
	if base == "" {
		return fmt.Sprintf("{le=%q}", le)
	}
	return strings.TrimSuffix(base, "}") + fmt.Sprintf(",le=%q}", le)
}

// RecordRequestMetrics 记录HTTP请求指标
func RecordRequestMetrics(method, path string, status int, duration time.Duration) {
	reg := GetRegistry()
	if c := reg.GetCounter("yepai_http_requests_total"); c != nil {
		c.Inc(method, path, fmt.Sprintf("%d", status))
	}
	if h := reg.GetHistogram("yepai_http_request_duration_seconds"); h != nil {
		h.Observe(duration.Seconds(), method, path)
	}
}

// RecordRosterGeneration 记录排班生成指标
func RecordRosterGeneration(status string, duration time.Duration) {
	reg := GetRegistry()
	if c := reg.GetCounter("yepai_roster_generation_total"); c != nil {
		c.Inc(status)
	}
	if h := reg.GetHistogram("yepai_roster_generation_duration_seconds"); h != nil {
		h.Observe(duration.Seconds(), status)
	}
}

// RecordConflict 记录校验冲突指标
func RecordConflict(kind, severity string) {
	if c := GetRegistry().GetCounter("yepai_roster_conflicts_total"); c != nil {
		c.Inc(kind, severity)
	}
}

// RecordResolution 记录修复指标
func RecordResolution(result string) {
	if c := GetRegistry().GetCounter("yepai_roster_resolutions_total"); c != nil {
		c.Inc(result)
	}
}
