package hostplatform

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/st-keller/knowu/platform"
)

const localtimePath = "/etc/localtime"

// Navigator reports hardware and locale facts of the running system. The lookup
// runs once per host.
func (h *Host) Navigator() (platform.Navigator, error) {
	return h.navigator()
}

func (h *Host) readNavigator() (platform.Navigator, error) {
	nav := platform.Navigator{
		UserAgent: h.userAgent,
		Platform:  platformName(runtime.GOOS, runtime.GOARCH),
	}

	if n, err := cpu.Counts(true); err == nil {
		nav.HardwareConcurrency = n
	} else {
		h.log.Debug().Err(err).Msg("cpu count lookup failed")
		nav.HardwareConcurrency = runtime.NumCPU()
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		nav.DeviceMemory = deviceMemory(vm.Total)
	} else {
		h.log.Debug().Err(err).Msg("memory lookup failed")
	}

	if info, err := host.Info(); err == nil && info.KernelArch != "" {
		nav.Platform = platformName(info.OS, info.KernelArch)
	} else if err != nil {
		h.log.Debug().Err(err).Msg("host info lookup failed")
	}

	if tag, ok := h.localeTag("LANG"); ok {
		nav.Language = tag
	}
	nav.Languages = h.languages(nav.Language)

	return nav, nil
}

// platformName mirrors navigator.platform, e.g. "Linux x86_64".
func platformName(goos, arch string) string {
	if goos == "" {
		return arch
	}
	return cases.Title(language.Und).String(goos) + " " + arch
}

// deviceMemory rounds total bytes to a power-of-two GiB clamped to [0.25, 8],
// the buckets browsers expose.
func deviceMemory(total uint64) float64 {
	if total == 0 {
		return 0
	}
	gib := float64(total) / (1 << 30)
	v := math.Pow(2, math.Round(math.Log2(gib)))
	return min(max(v, 0.25), 8)
}

// languages reads the colon-separated LANGUAGE list, falling back to primary.
func (h *Host) languages(primary string) []string {
	var out []string
	for _, raw := range strings.Split(h.getenv("LANGUAGE"), ":") {
		if tag, ok := normalizeLocale(raw); ok {
			out = append(out, tag)
		}
	}
	if len(out) == 0 && primary != "" {
		out = []string{primary}
	}
	return out
}

// TimeZone reports the IANA name from TZ or the /etc/localtime link.
func (h *Host) TimeZone() (string, error) {
	if tz := strings.TrimPrefix(h.getenv("TZ"), ":"); tz != "" {
		if _, err := time.LoadLocation(tz); err == nil {
			return tz, nil
		}
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name, nil
	}

	target, err := filepath.EvalSymlinks(localtimePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", platform.Unavailable("timezone")
		}
		return "", platform.Failed("timezone", err)
	}
	if _, name, ok := strings.Cut(target, "zoneinfo/"); ok && name != "" {
		return name, nil
	}
	return "", platform.Unavailable("timezone")
}

// DateTimeLocale reports the locale from LC_ALL, LC_TIME or LANG.
func (h *Host) DateTimeLocale() (string, error) {
	for _, key := range []string{"LC_ALL", "LC_TIME", "LANG"} {
		if tag, ok := h.localeTag(key); ok {
			return tag, nil
		}
	}
	return "", platform.Unavailable("locale")
}

func (h *Host) localeTag(key string) (string, bool) {
	return normalizeLocale(h.getenv(key))
}

// normalizeLocale turns a POSIX locale ("de_CH.UTF-8@euro") into a BCP 47 tag.
func normalizeLocale(raw string) (string, bool) {
	raw, _, _ = strings.Cut(raw, ".")
	raw, _, _ = strings.Cut(raw, "@")
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "C" || raw == "POSIX" {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(raw, "_", "-"))
	if err != nil {
		return "", false
	}
	return tag.String(), true
}

// Math evaluates Go's math library.
func (h *Host) Math(fn string, x float64) (float64, error) {
	f, ok := mathFuncs[fn]
	if !ok {
		return 0, platform.Failed("math", fmt.Errorf("unknown function %q", fn))
	}
	return f(x), nil
}

var mathFuncs = map[string]func(float64) float64{
	"acos": math.Acos,
	"asin": math.Asin,
	"atan": math.Atan,
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"log":  math.Log,
}
