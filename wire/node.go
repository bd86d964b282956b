package wire

import "github.com/anthropics/viewport/protocol"

// encodeVNode converts a VNode into a generic map ready for CBOR
// marshaling. When intKeyed is true, node-core and property keys use
// the canonical small-integer enumeration (§6.3); otherwise plain
// property name strings are used (the string-keyed comparison
// encoding). Both shapes decode through decodeVNode.
func encodeVNode(v *protocol.VNode, intKeyed bool) interface{} {
	if v == nil {
		return nil
	}

	if intKeyed {
		m := map[int]interface{}{
			0: v.ID,
			1: string(v.Type),
		}
		encodePropsInto(func(k int, val interface{}) { m[k] = val }, v.Props)
		if len(v.Children) > 0 {
			children := make([]interface{}, len(v.Children))
			for i, c := range v.Children {
				children[i] = encodeVNode(c, true)
			}
			m[2] = children
		}
		if v.TextAlt != nil {
			m[3] = *v.TextAlt
		}
		return m
	}

	m := map[string]interface{}{
		"id":   v.ID,
		"type": string(v.Type),
	}
	encodeStringProps(m, v.Props)
	if len(v.Children) > 0 {
		children := make([]interface{}, len(v.Children))
		for i, c := range v.Children {
			children[i] = encodeVNode(c, false)
		}
		m["children"] = children
	}
	if v.TextAlt != nil {
		m["textAlt"] = *v.TextAlt
	}
	return m
}

// encodePropsInto emits each populated NodeProps field through set,
// keyed by its canonical integer from nodePropKeys.
func encodePropsInto(set func(k int, v interface{}), p protocol.NodeProps) {
	put := func(name string, v interface{}) {
		if k, ok := nodePropKeys.ToInt(name); ok {
			set(k, v)
		}
	}
	putProps(put, p)
}

func encodeStringProps(m map[string]interface{}, p protocol.NodeProps) {
	putProps(func(name string, v interface{}) { m[name] = v }, p)
}

// putProps walks every non-nil NodeProps field and calls put(name, value).
// Shared by both the int-keyed and string-keyed encoders so the set of
// typed properties emitted never drifts between the two. Extra entries
// are passed through as well; the int-keyed encoder drops any whose
// name is not in the canonical enumeration.
func putProps(put func(name string, v interface{}), p protocol.NodeProps) {
	if p.Direction != "" {
		put("direction", p.Direction)
	}
	if p.Wrap != nil {
		put("wrap", *p.Wrap)
	}
	if p.Justify != "" {
		put("justify", p.Justify)
	}
	if p.Align != "" {
		put("align", p.Align)
	}
	if p.Gap != nil {
		put("gap", *p.Gap)
	}
	if p.Padding != nil {
		put("padding", p.Padding)
	}
	if p.Margin != nil {
		put("margin", p.Margin)
	}
	if p.Border != nil {
		put("border", map[string]interface{}{"width": p.Border.Width, "color": p.Border.Color, "style": p.Border.Style})
	}
	if p.BorderRadius != nil {
		put("borderRadius", *p.BorderRadius)
	}
	if p.Background != nil {
		put("background", p.Background)
	}
	if p.Opacity != nil {
		put("opacity", *p.Opacity)
	}
	if p.Shadow != nil {
		put("shadow", map[string]interface{}{"x": p.Shadow.X, "y": p.Shadow.Y, "blur": p.Shadow.Blur, "color": p.Shadow.Color})
	}
	if p.Width != nil {
		put("width", p.Width)
	}
	if p.Height != nil {
		put("height", p.Height)
	}
	if p.Flex != nil {
		put("flex", *p.Flex)
	}
	if p.MinWidth != nil {
		put("minWidth", *p.MinWidth)
	}
	if p.MinHeight != nil {
		put("minHeight", *p.MinHeight)
	}
	if p.MaxWidth != nil {
		put("maxWidth", *p.MaxWidth)
	}
	if p.MaxHeight != nil {
		put("maxHeight", *p.MaxHeight)
	}
	if p.Content != nil {
		put("content", *p.Content)
	}
	if p.FontFamily != "" {
		put("fontFamily", p.FontFamily)
	}
	if p.Size != nil {
		put("size", *p.Size)
	}
	if p.Weight != "" {
		put("weight", p.Weight)
	}
	if p.Color != nil {
		put("color", p.Color)
	}
	if p.Decoration != "" {
		put("decoration", p.Decoration)
	}
	if p.TextAlign != "" {
		put("textAlign", p.TextAlign)
	}
	if p.Italic != nil {
		put("italic", *p.Italic)
	}
	if p.VirtualHeight != nil {
		put("virtualHeight", *p.VirtualHeight)
	}
	if p.VirtualWidth != nil {
		put("virtualWidth", *p.VirtualWidth)
	}
	if p.ScrollTop != nil {
		put("scrollTop", *p.ScrollTop)
	}
	if p.ScrollLeft != nil {
		put("scrollLeft", *p.ScrollLeft)
	}
	if p.Schema != nil {
		put("schema", *p.Schema)
	}
	if p.Value != nil {
		put("value", *p.Value)
	}
	if p.Placeholder != nil {
		put("placeholder", *p.Placeholder)
	}
	if p.Multiline != nil {
		put("multiline", *p.Multiline)
	}
	if p.Disabled != nil {
		put("disabled", *p.Disabled)
	}
	if p.Data != nil {
		put("data", p.Data)
	}
	if p.Format != "" {
		put("format", p.Format)
	}
	if p.AltText != nil {
		put("altText", *p.AltText)
	}
	if p.Mode != "" {
		put("mode", p.Mode)
	}
	if p.Interactive != "" {
		put("interactive", p.Interactive)
	}
	if p.TabIndex != nil {
		put("tabIndex", *p.TabIndex)
	}
	if p.Style != nil {
		put("style", *p.Style)
	}
	if p.Transition != nil {
		put("transition", *p.Transition)
	}
	for k, v := range p.Extra {
		put(k, v)
	}
}

// decodeVNode reconstructs a VNode from a generically-decoded CBOR
// value, regardless of whether it used canonical integer keys or
// plain string keys.
func decodeVNode(raw interface{}) *protocol.VNode {
	gm, ok := asGenericMap(raw)
	if !ok {
		return nil
	}

	v := &protocol.VNode{}
	if id, ok := gm.get(0, "id"); ok {
		if n, ok := toInt(id); ok {
			v.ID = n
		}
	}
	if t, ok := gm.get(1, "type"); ok {
		if s, ok := toString(t); ok {
			v.Type = protocol.NodeType(s)
		}
	}
	if ta, ok := gm.get(3, "textAlt"); ok {
		if s, ok := toString(ta); ok {
			v.TextAlt = &s
		}
	}
	if ch, ok := gm.get(2, "children"); ok {
		if arr, ok := ch.([]interface{}); ok {
			v.Children = make([]*protocol.VNode, 0, len(arr))
			for _, c := range arr {
				if cn := decodeVNode(c); cn != nil {
					v.Children = append(v.Children, cn)
				}
			}
		}
	}

	v.Props = decodeProps(gm)
	return v
}

// decodeProps fills a NodeProps from the node's property map. Unknown
// keys (not in the canonical enumeration and not a recognized string
// name) are preserved in Extra rather than discarded (§4.2
// determinism: "Unknown keys on decode are ignored" applies to
// forward-incompatible *additions*; this module also keeps them
// accessible via Extra). Extra entries survive a round trip through
// the string-keyed encoding only: the canonical int-keyed encoding
// does not emit names outside the enumeration.
func decodeProps(gm genericMap) protocol.NodeProps {
	var p protocol.NodeProps

	getStr := func(intKey int, name string) (string, bool) {
		if v, ok := gm.get(intKey, name); ok {
			return toString(v)
		}
		return "", false
	}
	getInt := func(intKey int, name string) (*int, bool) {
		if v, ok := gm.get(intKey, name); ok {
			if n, ok := toInt(v); ok {
				return &n, true
			}
		}
		return nil, false
	}
	getFloat := func(intKey int, name string) (*float64, bool) {
		if v, ok := gm.get(intKey, name); ok {
			if f, ok := toFloat(v); ok {
				return &f, true
			}
		}
		return nil, false
	}
	getBool := func(intKey int, name string) (*bool, bool) {
		if v, ok := gm.get(intKey, name); ok {
			if b, ok := toBool(v); ok {
				return &b, true
			}
		}
		return nil, false
	}

	if s, ok := getStr(10, "direction"); ok {
		p.Direction = s
	}
	if b, ok := getBool(11, "wrap"); ok {
		p.Wrap = b
	}
	if s, ok := getStr(12, "justify"); ok {
		p.Justify = s
	}
	if s, ok := getStr(13, "align"); ok {
		p.Align = s
	}
	if n, ok := getInt(14, "gap"); ok {
		p.Gap = n
	}
	if v, ok := gm.get(20, "padding"); ok {
		p.Padding = v
	}
	if v, ok := gm.get(21, "margin"); ok {
		p.Margin = v
	}
	if v, ok := gm.get(25, "border"); ok {
		if bm, ok := asGenericMap(v); ok {
			b := &protocol.BorderStyle{}
			if n, ok := bm.get(0, "width"); ok {
				if i, ok := toInt(n); ok {
					b.Width = i
				}
			}
			if c, ok := bm.get(1, "color"); ok {
				if s, ok := toString(c); ok {
					b.Color = s
				}
			}
			if s, ok := bm.get(2, "style"); ok {
				if st, ok := toString(s); ok {
					b.Style = st
				}
			}
			p.Border = b
		}
	}
	if n, ok := getInt(26, "borderRadius"); ok {
		p.BorderRadius = n
	}
	if v, ok := gm.get(27, "background"); ok {
		p.Background = v
	}
	if f, ok := getFloat(28, "opacity"); ok {
		p.Opacity = f
	}
	if v, ok := gm.get(29, "shadow"); ok {
		if sm, ok := asGenericMap(v); ok {
			s := &protocol.ShadowStyle{}
			if n, ok := sm.get(0, "x"); ok {
				if i, ok := toInt(n); ok {
					s.X = i
				}
			}
			if n, ok := sm.get(1, "y"); ok {
				if i, ok := toInt(n); ok {
					s.Y = i
				}
			}
			if n, ok := sm.get(2, "blur"); ok {
				if i, ok := toInt(n); ok {
					s.Blur = i
				}
			}
			if c, ok := sm.get(3, "color"); ok {
				if cs, ok := toString(c); ok {
					s.Color = cs
				}
			}
			p.Shadow = s
		}
	}
	if v, ok := gm.get(35, "width"); ok {
		p.Width = v
	}
	if v, ok := gm.get(36, "height"); ok {
		p.Height = v
	}
	if f, ok := getFloat(37, "flex"); ok {
		p.Flex = f
	}
	if n, ok := getInt(38, "minWidth"); ok {
		p.MinWidth = n
	}
	if n, ok := getInt(39, "minHeight"); ok {
		p.MinHeight = n
	}
	if n, ok := getInt(40, "maxWidth"); ok {
		p.MaxWidth = n
	}
	if n, ok := getInt(41, "maxHeight"); ok {
		p.MaxHeight = n
	}
	if s, ok := getStr(45, "content"); ok {
		p.Content = &s
	}
	if s, ok := getStr(46, "fontFamily"); ok {
		p.FontFamily = s
	}
	if n, ok := getInt(47, "size"); ok {
		p.Size = n
	}
	if s, ok := getStr(48, "weight"); ok {
		p.Weight = s
	}
	if v, ok := gm.get(49, "color"); ok {
		p.Color = v
	}
	if s, ok := getStr(50, "decoration"); ok {
		p.Decoration = s
	}
	if s, ok := getStr(51, "textAlign"); ok {
		p.TextAlign = s
	}
	if b, ok := getBool(52, "italic"); ok {
		p.Italic = b
	}
	if n, ok := getInt(60, "virtualHeight"); ok {
		p.VirtualHeight = n
	}
	if n, ok := getInt(61, "virtualWidth"); ok {
		p.VirtualWidth = n
	}
	if n, ok := getInt(62, "scrollTop"); ok {
		p.ScrollTop = n
	}
	if n, ok := getInt(63, "scrollLeft"); ok {
		p.ScrollLeft = n
	}
	if n, ok := getInt(64, "schema"); ok {
		p.Schema = n
	}
	if s, ok := getStr(70, "value"); ok {
		p.Value = &s
	}
	if s, ok := getStr(71, "placeholder"); ok {
		p.Placeholder = &s
	}
	if b, ok := getBool(72, "multiline"); ok {
		p.Multiline = b
	}
	if b, ok := getBool(73, "disabled"); ok {
		p.Disabled = b
	}
	if v, ok := gm.get(80, "data"); ok {
		if b, ok := toBytes(v); ok {
			p.Data = b
		}
	}
	if s, ok := getStr(81, "format"); ok {
		p.Format = s
	}
	if s, ok := getStr(82, "altText"); ok {
		p.AltText = &s
	}
	if s, ok := getStr(83, "mode"); ok {
		p.Mode = s
	}
	if s, ok := getStr(90, "interactive"); ok {
		p.Interactive = s
	}
	if n, ok := getInt(91, "tabIndex"); ok {
		p.TabIndex = n
	}
	if n, ok := getInt(92, "style"); ok {
		p.Style = n
	}
	if n, ok := getInt(93, "transition"); ok {
		p.Transition = n
	}

	known := map[string]bool{
		"id": true, "type": true, "children": true, "textAlt": true,
		"direction": true, "wrap": true, "justify": true, "align": true, "gap": true,
		"padding": true, "margin": true, "border": true, "borderRadius": true,
		"background": true, "opacity": true, "shadow": true, "width": true, "height": true,
		"flex": true, "minWidth": true, "minHeight": true, "maxWidth": true, "maxHeight": true,
		"content": true, "fontFamily": true, "size": true, "weight": true, "color": true,
		"decoration": true, "textAlign": true, "italic": true, "virtualHeight": true,
		"virtualWidth": true, "scrollTop": true, "scrollLeft": true, "schema": true,
		"value": true, "placeholder": true, "multiline": true, "disabled": true, "data": true,
		"format": true, "altText": true, "mode": true, "interactive": true, "tabIndex": true,
		"style": true, "transition": true,
	}
	for name, v := range gm.stringKeys(nodePropKeys) {
		if !known[name] {
			if p.Extra == nil {
				p.Extra = make(map[string]interface{})
			}
			p.Extra[name] = v
		}
	}

	return p
}
