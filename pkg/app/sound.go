package app

import (
	"encoding/binary"
	"math"

	"github.com/gonewx/tdsim/pkg/event"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const sampleRate = 48000

// tone 一个提示音
type tone struct {
	freq     float64
	duration float64
}

// eventTones 对局事件对应的提示音
var eventTones = map[event.Type]tone{
	event.EnemyDefeated:   {freq: 880, duration: 0.05},
	event.EnemyReachedEnd: {freq: 220, duration: 0.2},
	event.TowerPlaced:     {freq: 660, duration: 0.08},
	event.TowerUpgraded:   {freq: 990, duration: 0.1},
	event.WaveStarted:     {freq: 440, duration: 0.3},
	event.GameOver:        {freq: 110, duration: 0.8},
	event.Victory:         {freq: 1320, duration: 0.8},
}

// SoundHooks 订阅对局事件并播放合成提示音
type SoundHooks struct {
	context *audio.Context
	clips   map[event.Type][]byte
}

// NewSoundHooks 创建提示音播放器并预先合成所有音频
func NewSoundHooks(context *audio.Context) *SoundHooks {
	h := &SoundHooks{
		context: context,
		clips:   make(map[event.Type][]byte, len(eventTones)),
	}
	for typ, t := range eventTones {
		h.clips[typ] = synthesize(t, sampleRate)
	}
	return h
}

// OnEvent 实现 event.Listener
func (h *SoundHooks) OnEvent(e event.Event) {
	clip, ok := h.clips[e.Type]
	if !ok || h.context == nil {
		return
	}
	h.context.NewPlayerFromBytes(clip).Play()
}

// Attach 只订阅有音效的事件类型
func (h *SoundHooks) Attach(bus *event.Bus) {
	for typ := range h.clips {
		bus.Subscribe(typ, h)
	}
}

// synthesize 生成带线性淡出的正弦波，16 位小端双声道 PCM
func synthesize(t tone, rate int) []byte {
	frames := int(t.duration * float64(rate))
	buf := make([]byte, frames*4)
	for i := 0; i < frames; i++ {
		fade := 1 - float64(i)/float64(frames)
		v := int16(math.Sin(2*math.Pi*t.freq*float64(i)/float64(rate)) * fade * 0.3 * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*4:], uint16(v))
		binary.LittleEndian.PutUint16(buf[i*4+2:], uint16(v))
	}
	return buf
}
