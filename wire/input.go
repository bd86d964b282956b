package wire

import "github.com/anthropics/viewport/protocol"

func encodeInputEvent(e *protocol.InputEvent, intKeyed bool) interface{} {
	if e == nil {
		return nil
	}
	put := func(m interface{}, name string, v interface{}) {
		switch mm := m.(type) {
		case map[int]interface{}:
			if k, ok := inputEventKeys.ToInt(name); ok {
				mm[k] = v
			}
		case map[string]interface{}:
			mm[name] = v
		}
	}
	m := newObj(intKeyed)
	if e.Target != nil {
		put(m, "target", *e.Target)
	}
	put(m, "kind", e.Kind)
	if e.Key != "" {
		put(m, "key", e.Key)
	}
	if e.Value != "" {
		put(m, "value", e.Value)
	}
	if e.X != nil {
		put(m, "x", *e.X)
	}
	if e.Y != nil {
		put(m, "y", *e.Y)
	}
	if e.Button != nil {
		put(m, "button", *e.Button)
	}
	if e.Action != "" {
		put(m, "action", e.Action)
	}
	if e.ScrollTop != nil {
		put(m, "scrollTop", *e.ScrollTop)
	}
	if e.ScrollLeft != nil {
		put(m, "scrollLeft", *e.ScrollLeft)
	}
	return m
}

func decodeInputEvent(raw interface{}) *protocol.InputEvent {
	gm, ok := asGenericMap(raw)
	if !ok {
		return nil
	}
	e := &protocol.InputEvent{}
	if v, ok := gm.get(0, "target"); ok {
		if n, ok := toInt(v); ok {
			e.Target = &n
		}
	}
	if v, ok := gm.get(1, "kind"); ok {
		if s, ok := toString(v); ok {
			e.Kind = s
		}
	}
	if v, ok := gm.get(2, "key"); ok {
		if s, ok := toString(v); ok {
			e.Key = s
		}
	}
	if v, ok := gm.get(3, "value"); ok {
		if s, ok := toString(v); ok {
			e.Value = s
		}
	}
	if v, ok := gm.get(4, "x"); ok {
		if n, ok := toInt(v); ok {
			e.X = &n
		}
	}
	if v, ok := gm.get(5, "y"); ok {
		if n, ok := toInt(v); ok {
			e.Y = &n
		}
	}
	if v, ok := gm.get(6, "button"); ok {
		if n, ok := toInt(v); ok {
			e.Button = &n
		}
	}
	if v, ok := gm.get(7, "action"); ok {
		if s, ok := toString(v); ok {
			e.Action = s
		}
	}
	if v, ok := gm.get(8, "scrollTop"); ok {
		if n, ok := toInt(v); ok {
			e.ScrollTop = &n
		}
	}
	if v, ok := gm.get(9, "scrollLeft"); ok {
		if n, ok := toInt(v); ok {
			e.ScrollLeft = &n
		}
	}
	return e
}

func encodeEnvInfo(e *protocol.EnvInfo) interface{} {
	if e == nil {
		return nil
	}
	m := map[string]interface{}{
		"viewportVersion": e.ViewportVersion,
		"displayWidth":    e.DisplayWidth,
		"displayHeight":   e.DisplayHeight,
		"pixelDensity":    e.PixelDensity,
		"gpu":             e.GPU,
		"colorDepth":      e.ColorDepth,
		"remote":          e.Remote,
		"latencyMs":       e.LatencyMs,
	}
	if e.GPUApi != "" {
		m["gpuApi"] = e.GPUApi
	}
	if len(e.VideoDecode) > 0 {
		vd := make([]interface{}, len(e.VideoDecode))
		for i, s := range e.VideoDecode {
			vd[i] = s
		}
		m["videoDecode"] = vd
	}
	return m
}

func decodeEnvInfo(raw interface{}) *protocol.EnvInfo {
	gm, ok := asGenericMap(raw)
	if !ok {
		return nil
	}
	e := &protocol.EnvInfo{}
	if v, ok := gm["viewportVersion"]; ok {
		if n, ok := toInt(v); ok {
			e.ViewportVersion = n
		}
	}
	if v, ok := gm["displayWidth"]; ok {
		if n, ok := toInt(v); ok {
			e.DisplayWidth = n
		}
	}
	if v, ok := gm["displayHeight"]; ok {
		if n, ok := toInt(v); ok {
			e.DisplayHeight = n
		}
	}
	if v, ok := gm["pixelDensity"]; ok {
		if f, ok := toFloat(v); ok {
			e.PixelDensity = f
		}
	}
	if v, ok := gm["gpu"]; ok {
		if b, ok := toBool(v); ok {
			e.GPU = b
		}
	}
	if v, ok := gm["gpuApi"]; ok {
		if s, ok := toString(v); ok {
			e.GPUApi = s
		}
	}
	if v, ok := gm["colorDepth"]; ok {
		if n, ok := toInt(v); ok {
			e.ColorDepth = n
		}
	}
	if v, ok := gm["videoDecode"]; ok {
		if arr, ok := v.([]interface{}); ok {
			for _, item := range arr {
				if s, ok := toString(item); ok {
					e.VideoDecode = append(e.VideoDecode, s)
				}
			}
		}
	}
	if v, ok := gm["remote"]; ok {
		if b, ok := toBool(v); ok {
			e.Remote = b
		}
	}
	if v, ok := gm["latencyMs"]; ok {
		if f, ok := toFloat(v); ok {
			e.LatencyMs = f
		}
	}
	return e
}
