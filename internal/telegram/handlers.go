package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ai-hub/internal/provider"
	"ai-hub/internal/resolve"
)

const banner = "🤖 "

const usageText = `usage:
/ai help
/ai chat [model] <prompt>    model: llama2 mistral flan_t5 falcon gpt2 bloom
/ai wiki <topic>
/ai duck <query>
/ai translate [lang] <text>
/ai tts <text>
/ai media <op> <input>       op: t2i t2v i2v v2v upscale act flux fixface caption burncaption recon3d
/ai replicate <name> <prompt>`

type mode int

const (
	modeHelp mode = iota
	modeChat
	modeWiki
	modeDuck
	modeTranslate
	modeTTS
	modeMedia
	modeReplicate
)

func parseMode(s string) (mode, bool) {
	switch s {
	case "help":
		return modeHelp, true
	case "chat":
		return modeChat, true
	case "wiki":
		return modeWiki, true
	case "duck":
		return modeDuck, true
	case "translate":
		return modeTranslate, true
	case "tts":
		return modeTTS, true
	case "media":
		return modeMedia, true
	case "replicate":
		return modeReplicate, true
	}
	return 0, false
}

type mediaOp int

const (
	opT2I mediaOp = iota
	opT2V
	opI2V
	opV2V
	opUpscale
	opAct
	opFlux
	opFixFace
	opCaption
	opBurnCaption
	opRecon3D
)

func parseMediaOp(s string) (mediaOp, bool) {
	switch s {
	case "t2i":
		return opT2I, true
	case "t2v":
		return opT2V, true
	case "i2v":
		return opI2V, true
	case "v2v":
		return opV2V, true
	case "upscale":
		return opUpscale, true
	case "act":
		return opAct, true
	case "flux":
		return opFlux, true
	case "fixface":
		return opFixFace, true
	case "caption":
		return opCaption, true
	case "burncaption":
		return opBurnCaption, true
	case "recon3d":
		return opRecon3D, true
	}
	return 0, false
}

// replyShape picks the outbound message type by the requested
// operation, never by inspecting the payload.
type replyShape int

const (
	shapeText replyShape = iota
	shapePhoto
	shapeVideo
	shapeVoice
	shapeDocument
)

func (b *Bot) dispatch(ctx context.Context, chatID, userID int64, argLine string) {
	args := strings.Fields(argLine)
	if len(args) == 0 {
		b.sendText(chatID, banner+usageText)
		return
	}
	m, ok := parseMode(args[0])
	if !ok {
		b.sendText(chatID, banner+usageText)
		return
	}
	rest := args[1:]

	switch m {
	case modeHelp:
		b.sendText(chatID, banner+usageText)
	case modeChat:
		b.handleChat(ctx, chatID, userID, rest)
	case modeWiki:
		b.handleWiki(ctx, chatID, rest)
	case modeDuck:
		b.handleDuck(ctx, chatID, rest)
	case modeTranslate:
		b.handleTranslate(ctx, chatID, rest)
	case modeTTS:
		b.handleTTS(ctx, chatID, rest)
	case modeMedia:
		b.handleMedia(ctx, chatID, rest)
	case modeReplicate:
		b.handleReplicate(ctx, chatID, rest)
	}
}

func (b *Bot) handleChat(ctx context.Context, chatID, userID int64, args []string) {
	modelKey := provider.DefaultModelKey
	if len(args) > 1 && provider.IsModelKey(args[0]) {
		modelKey = args[0]
		args = args[1:]
	}
	if len(args) == 0 {
		b.sendText(chatID, banner+"usage: /ai chat [model] <prompt>")
		return
	}
	prompt := strings.Join(args, " ")
	conversationID := strconv.FormatInt(userID, 10)

	answer, err := b.chat.Ask(ctx, conversationID, modelKey, prompt)
	if err != nil {
		b.sendText(chatID, banner+"no text provider is available right now")
		return
	}
	b.sendText(chatID, banner+answer)
}

func (b *Bot) handleWiki(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		b.sendText(chatID, banner+"usage: /ai wiki <topic>")
		return
	}
	topic := strings.Join(args, " ")
	res, err := b.res.Resolve(ctx, "wiki", []resolve.Attempt{{
		Name:      "wikipedia",
		Available: b.reg.Wiki.Available,
		Run: func(ctx context.Context) (provider.Result, error) {
			return b.reg.Wiki.Summary(ctx, topic)
		},
	}})
	if err != nil {
		b.sendText(chatID, banner+"no knowledge provider is available right now")
		return
	}
	b.sendText(chatID, banner+res.Text)
}

func (b *Bot) handleDuck(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		b.sendText(chatID, banner+"usage: /ai duck <query>")
		return
	}
	query := strings.Join(args, " ")
	res, err := b.res.Resolve(ctx, "duck", []resolve.Attempt{{
		Name:      "duckduckgo",
		Available: b.reg.Duck.Available,
		Run: func(ctx context.Context) (provider.Result, error) {
			return b.reg.Duck.Answer(ctx, query)
		},
	}})
	if err != nil {
		b.sendText(chatID, banner+"no search provider is available right now")
		return
	}
	b.sendText(chatID, banner+res.Text)
}

func (b *Bot) handleTranslate(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		b.sendText(chatID, banner+"usage: /ai translate [lang] <text>")
		return
	}
	lang := "en"
	if len(args) > 1 && len(args[0]) <= 3 {
		lang = args[0]
		args = args[1:]
	}
	text := strings.Join(args, " ")
	// Translation never fails: worst case the text echoes back.
	b.sendText(chatID, banner+b.reg.Translate.Translate(ctx, lang, text))
}

func (b *Bot) handleTTS(ctx context.Context, chatID int64, args []string) {
	if len(args) == 0 {
		b.sendText(chatID, banner+"usage: /ai tts <text>")
		return
	}
	text := strings.Join(args, " ")
	res, err := b.res.Resolve(ctx, "tts", []resolve.Attempt{
		{
			Name:      "elevenlabs",
			Available: b.reg.ElevenLabs.Available,
			Run: func(ctx context.Context) (provider.Result, error) {
				return b.reg.ElevenLabs.Speak(ctx, text)
			},
		},
		{
			Name:      "replicate-tts",
			Available: b.reg.Replicate.HasTTS,
			Run: func(ctx context.Context) (provider.Result, error) {
				return b.reg.Replicate.Speak(ctx, text)
			},
		},
	})
	if err != nil {
		b.sendText(chatID, banner+"no speech provider is available right now")
		return
	}
	b.sendReply(chatID, shapeVoice, res, "")
}

func (b *Bot) handleMedia(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		b.sendText(chatID, banner+"usage: /ai media <op> <input>")
		return
	}
	op, ok := parseMediaOp(args[0])
	if !ok {
		b.sendText(chatID, banner+"no provider configured for that media mode")
		return
	}
	input := strings.Join(args[1:], " ")

	attempt, shape := b.mediaAttempt(op, input)
	res, err := b.res.Resolve(ctx, "media:"+args[0], []resolve.Attempt{attempt})
	if err != nil {
		b.sendText(chatID, banner+"no media provider is available right now")
		return
	}
	b.sendReply(chatID, shape, res, args[0]+": "+truncateCaption(input))
}

// mediaAttempt maps each media operation onto its single provider
// adapter and the reply shape the operation implies.
func (b *Bot) mediaAttempt(op mediaOp, input string) (resolve.Attempt, replyShape) {
	v, r := b.reg.Vidu, b.reg.Replicate
	run := func(name string, available func() bool, f func(ctx context.Context) (provider.Result, error)) resolve.Attempt {
		return resolve.Attempt{Name: name, Available: available, Run: f}
	}
	switch op {
	case opT2I:
		return run("vidu-t2i", v.Available, func(ctx context.Context) (provider.Result, error) {
			return v.TextToImage(ctx, input)
		}), shapePhoto
	case opT2V:
		return run("vidu-t2v", v.Available, func(ctx context.Context) (provider.Result, error) {
			return v.TextToVideo(ctx, input)
		}), shapeVideo
	case opI2V:
		return run("vidu-i2v", v.Available, func(ctx context.Context) (provider.Result, error) {
			return v.ImageToVideo(ctx, input)
		}), shapeVideo
	case opV2V:
		return run("vidu-v2v", v.Available, func(ctx context.Context) (provider.Result, error) {
			return v.VideoToVideo(ctx, input)
		}), shapeVideo
	case opUpscale:
		return run("vidu-upscale", v.Available, func(ctx context.Context) (provider.Result, error) {
			return v.Upscale(ctx, input)
		}), shapeVideo
	case opAct:
		return run("vidu-act", v.Available, func(ctx context.Context) (provider.Result, error) {
			return v.Act(ctx, input)
		}), shapeVideo
	case opFlux:
		return run("replicate-flux", func() bool { return r.HasModel("flux") }, func(ctx context.Context) (provider.Result, error) {
			return r.Flux(ctx, input)
		}), shapePhoto
	case opFixFace:
		return run("replicate-fixface", func() bool { return r.HasModel("fixface") }, func(ctx context.Context) (provider.Result, error) {
			return r.FixFace(ctx, input)
		}), shapePhoto
	case opCaption:
		return run("replicate-caption", func() bool { return r.HasModel("caption") }, func(ctx context.Context) (provider.Result, error) {
			return r.Caption(ctx, input)
		}), shapeText
	case opBurnCaption:
		return run("replicate-burncaption", func() bool { return r.HasModel("burncaption") }, func(ctx context.Context) (provider.Result, error) {
			return r.BurnCaption(ctx, input)
		}), shapeVideo
	case opRecon3D:
		return run("replicate-recon3d", func() bool { return r.HasModel("recon3d") }, func(ctx context.Context) (provider.Result, error) {
			return r.Recon3D(ctx, input)
		}), shapeDocument
	}
	// parseMediaOp is the only producer of mediaOp values, so this is
	// unreachable; an empty attempt resolves to the sentinel failure.
	return resolve.Attempt{Name: "none", Available: func() bool { return false }}, shapeText
}

func (b *Bot) handleReplicate(ctx context.Context, chatID int64, args []string) {
	if len(args) < 2 {
		b.sendText(chatID, banner+"usage: /ai replicate <name> <prompt>")
		return
	}
	name := args[0]
	prompt := strings.Join(args[1:], " ")
	res, err := b.res.Resolve(ctx, "replicate:"+name, []resolve.Attempt{{
		Name:      "replicate-" + name,
		Available: func() bool { return b.reg.Replicate.HasModel(name) },
		Run: func(ctx context.Context) (provider.Result, error) {
			return b.reg.Replicate.Named(ctx, name, prompt)
		},
	}})
	if err != nil {
		b.sendText(chatID, banner+"no provider available for "+name)
		return
	}
	b.sendText(chatID, banner+res.Text)
}

func (b *Bot) sendReply(chatID int64, shape replyShape, res provider.Result, caption string) {
	var c tgbotapi.Chattable
	switch shape {
	case shapePhoto:
		p := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(res.MediaURL))
		p.Caption = caption
		c = p
	case shapeVideo:
		v := tgbotapi.NewVideo(chatID, tgbotapi.FileURL(res.MediaURL))
		v.Caption = caption
		c = v
	case shapeDocument:
		c = tgbotapi.NewDocument(chatID, tgbotapi.FileURL(res.MediaURL))
	case shapeVoice:
		if len(res.Audio) > 0 {
			c = tgbotapi.NewVoice(chatID, tgbotapi.FileBytes{Name: "tts.mp3", Bytes: res.Audio})
		} else {
			c = tgbotapi.NewVoice(chatID, tgbotapi.FileURL(res.MediaURL))
		}
	default:
		b.sendText(chatID, banner+res.Text)
		return
	}
	if _, err := b.s.Send(c); err != nil {
		b.log.Warnw("failed to send reply", "chat", chatID, "err", err)
	}
}

func truncateCaption(s string) string {
	if len(s) <= 100 {
		return s
	}
	return s[:100] + "..."
}
