package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle        = "app_title"
	KeyFile            = "file"
	KeyQuit            = "quit"
	KeyLanguage        = "language"
	KeyEnterURL        = "enter_url"
	KeyFetch           = "fetch"
	KeyFetching        = "fetching"
	KeyTitle           = "title"
	KeyDuration        = "duration"
	KeyUploader        = "uploader"
	KeyViews           = "views"
	KeyFormat          = "format"
	KeyOutputDirectory = "output_directory"
	KeyBrowse          = "browse"
	KeyDownload        = "download"
	KeyBack            = "back"
	KeyDownloading     = "downloading"
	KeyConsole         = "console"
	KeyDownloadDone    = "download_done"
	KeyOpenFolder      = "open_folder"
	KeyDownloadAnother = "download_another"
	KeyErrorTitle      = "error_title"
	KeyTryAgain        = "try_again"
	KeyErrorOpeningDir = "error_opening_dir"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:        "YT Grabber",
		KeyFile:            "File",
		KeyQuit:            "Quit",
		KeyLanguage:        "Language",
		KeyEnterURL:        "Enter YouTube URL (https://youtube.com/watch?v=...)",
		KeyFetch:           "Fetch Info",
		KeyFetching:        "Fetching video information...",
		KeyTitle:           "Title",
		KeyDuration:        "Duration",
		KeyUploader:        "Uploader",
		KeyViews:           "Views",
		KeyFormat:          "Format",
		KeyOutputDirectory: "Output Directory",
		KeyBrowse:          "Browse",
		KeyDownload:        "Download",
		KeyBack:            "Back",
		KeyDownloading:     "Downloading",
		KeyConsole:         "Console",
		KeyDownloadDone:    "Download finished",
		KeyOpenFolder:      "Open Folder",
		KeyDownloadAnother: "Download Another",
		KeyErrorTitle:      "Something went wrong",
		KeyTryAgain:        "Try Again",
		KeyErrorOpeningDir: "Error opening folder",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:        "YT Grabber",
		KeyFile:            "Файл",
		KeyQuit:            "Выход",
		KeyLanguage:        "Язык",
		KeyEnterURL:        "Введите URL YouTube (https://youtube.com/watch?v=...)",
		KeyFetch:           "Получить информацию",
		KeyFetching:        "Получение информации о видео...",
		KeyTitle:           "Название",
		KeyDuration:        "Длительность",
		KeyUploader:        "Автор",
		KeyViews:           "Просмотры",
		KeyFormat:          "Формат",
		KeyOutputDirectory: "Папка сохранения",
		KeyBrowse:          "Обзор",
		KeyDownload:        "Скачать",
		KeyBack:            "Назад",
		KeyDownloading:     "Загрузка",
		KeyConsole:         "Консоль",
		KeyDownloadDone:    "Загрузка завершена",
		KeyOpenFolder:      "Открыть папку",
		KeyDownloadAnother: "Скачать другое",
		KeyErrorTitle:      "Что-то пошло не так",
		KeyTryAgain:        "Попробовать снова",
		KeyErrorOpeningDir: "Ошибка открытия папки",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:        "YT Grabber",
		KeyFile:            "Arquivo",
		KeyQuit:            "Sair",
		KeyLanguage:        "Idioma",
		KeyEnterURL:        "Digite URL do YouTube (https://youtube.com/watch?v=...)",
		KeyFetch:           "Buscar Informações",
		KeyFetching:        "Buscando informações do vídeo...",
		KeyTitle:           "Título",
		KeyDuration:        "Duração",
		KeyUploader:        "Autor",
		KeyViews:           "Visualizações",
		KeyFormat:          "Formato",
		KeyOutputDirectory: "Diretório de Saída",
		KeyBrowse:          "Navegar",
		KeyDownload:        "Baixar",
		KeyBack:            "Voltar",
		KeyDownloading:     "Baixando",
		KeyConsole:         "Console",
		KeyDownloadDone:    "Download concluído",
		KeyOpenFolder:      "Abrir Pasta",
		KeyDownloadAnother: "Baixar Outro",
		KeyErrorTitle:      "Algo deu errado",
		KeyTryAgain:        "Tentar Novamente",
		KeyErrorOpeningDir: "Erro ao abrir pasta",
	}
}
