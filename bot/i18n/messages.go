package i18n

// Message keys used by the conversation flows. Composed texts that embed
// per-booking values (summaries, receipts) are assembled in the flows and
// stay in the default language, matching the coverage the operator supplied
// translations for.
const (
	MsgWelcome           = "welcome"
	MsgSelectLanguage    = "select_language"
	MsgLanguageSet       = "language_set"
	MsgMainMenu          = "main_menu"
	MsgTicketOptions     = "ticket_options"
	MsgSelectSrcRegion   = "select_source_region"
	MsgSelectSrcLocation = "select_source_location"
	MsgSelectDstRegion   = "select_destination_region"
	MsgSelectDstLocation = "select_destination_location"
	MsgPassengerCount    = "passenger_count"
	MsgNoTickets         = "no_tickets"
	MsgPassBusType       = "pass_bus_type"
	MsgNoPasses          = "no_passes"
	MsgUploadPDFOnly     = "upload_pdf_only"
	MsgDocReceivedOne    = "doc_received_one"
	MsgDocReceivedBoth   = "doc_received_both"
	MsgDocStepTwo        = "doc_step_two"
	MsgTrackingSoon      = "tracking_soon"
	MsgRouteInfo         = "route_info"
	MsgRouteFollowUp     = "route_follow_up"
	MsgSupport           = "support"
	MsgHelp              = "help"
	MsgUseButtons        = "use_buttons"
	MsgResetDone         = "reset_done"
	MsgErrGeneric        = "error_generic"
	MsgInvalidSelection  = "invalid_selection"

	BtnBackToMenu       = "btn_back_to_menu"
	BtnBackToTicketMenu = "btn_back_to_ticket_menu"
	BtnBuyTicket        = "btn_buy_ticket"
	BtnViewTickets      = "btn_view_tickets"
	BtnBuyPass          = "btn_buy_pass"
	BtnViewPasses       = "btn_view_passes"
	BtnTrackBus         = "btn_track_bus"
	BtnViewRoutes       = "btn_view_routes"
	BtnSupport          = "btn_support"
	BtnBusAC            = "btn_bus_ac"
	BtnBusNonAC         = "btn_bus_nonac"
	BtnBack             = "btn_back"
	BtnContinue         = "btn_continue"
)

// T returns the localized text for a message key, falling back to the
// default language and then to the key itself.
func T(lang Lang, key string) string {
	entry, ok := messages[key]
	if !ok {
		return key
	}
	if text, ok := entry[lang]; ok && text != "" {
		return text
	}
	return entry[LangEnglish]
}

var messages = map[string]map[Lang]string{
	MsgWelcome: {
		LangEnglish: "Welcome to CTU Transport Bot 🚌\n\nI can help you with:\n- Buying bus tickets\n- Purchasing bus passes\n- Tracking buses\n- Finding routes\n\nPlease select your preferred language:",
		LangHindi:   "CTU Transport Bot में आपका स्वागत है 🚌\n\nमैं आपकी इनमें मदद कर सकता हूं:\n- बस टिकट खरीदना\n- बस पास खरीदना\n- बसों को ट्रैक करना\n- मार्ग खोजना\n\nकृपया अपनी पसंदीदा भाषा चुनें:",
		LangPunjabi: "CTU Transport Bot ਵਿੱਚ ਤੁਹਾਡਾ ਸਵਾਗਤ ਹੈ 🚌\n\nਮੈਂ ਤੁਹਾਡੀ ਇਹਨਾਂ ਵਿੱਚ ਮਦਦ ਕਰ ਸਕਦਾ ਹਾਂ:\n- ਬੱਸ ਟਿਕਟ ਖਰੀਦਣਾ\n- ਬੱਸ ਪਾਸ ਖਰੀਦਣਾ\n- ਬੱਸਾਂ ਨੂੰ ਟਰੈਕ ਕਰਨਾ\n- ਰੂਟ ਲੱਭਣਾ\n\nਕਿਰਪਾ ਕਰਕੇ ਆਪਣੀ ਪਸੰਦੀਦਾ ਭਾਸ਼ਾ ਚੁਣੋ:",
	},
	MsgSelectLanguage: {
		LangEnglish: "Select your language / अपनी भाषा चुनें / ਆਪਣੀ ਭਾਸ਼ਾ ਚੁਣੋ:",
	},
	MsgLanguageSet: {
		LangEnglish: "Language set to English.",
		LangHindi:   "भाषा हिंदी पर सेट की गई।",
		LangPunjabi: "ਭਾਸ਼ਾ ਪੰਜਾਬੀ ਤੇ ਸੈੱਟ ਕੀਤੀ ਗਈ।",
	},
	MsgMainMenu: {
		LangEnglish: "Main Menu:",
		LangHindi:   "मुख्य मेनू:",
		LangPunjabi: "ਮੁੱਖ ਮੇਨੂ:",
	},
	MsgTicketOptions: {
		LangEnglish: "What would you like to do?",
		LangHindi:   "आप क्या करना चाहेंगे?",
		LangPunjabi: "ਤੁਸੀਂ ਕੀ ਕਰਨਾ ਚਾਹੋਗੇ?",
	},
	MsgSelectSrcRegion: {
		LangEnglish: "Please select the source region:",
		LangHindi:   "कृपया स्रोत क्षेत्र चुनें :",
		LangPunjabi: "ਕਿਰਪਾ ਕਰਕੇ ਆਪਣੇ ਸਰੋਤ ਸਥਾਨ ਦਾ ਖੇਤਰ ਚੁਣੋ:",
	},
	MsgSelectSrcLocation: {
		LangEnglish: "Please select your source location:",
		LangHindi:   "कृपया अपना स्रोत स्थान चुनें:",
		LangPunjabi: "ਕਿਰਪਾ ਕਰਕੇ ਆਪਣਾ ਸਰੋਤ ਸਥਾਨ ਚੁਣੋ:",
	},
	MsgSelectDstRegion: {
		LangEnglish: "Please select the destination:",
	},
	MsgSelectDstLocation: {
		LangEnglish: "Please select your destination:",
	},
	MsgPassengerCount: {
		LangEnglish: "How many passengers?",
	},
	MsgNoTickets: {
		LangEnglish: "You have no tickets purchased today.",
		LangHindi:   "आपने आज कोई टिकट नहीं खरीदा है।",
		LangPunjabi: "ਤੁਸੀਂ ਅੱਜ ਕੋਈ ਟਿਕਟ ਨਹੀਂ ਖਰੀਦਿਆ ਹੈ।",
	},
	MsgPassBusType: {
		LangEnglish: "Please select bus type for your pass:",
		LangHindi:   "कृपया अपने पास के लिए बस प्रकार चुनें:",
		LangPunjabi: "ਕਿਰਪਾ ਕਰਕੇ ਆਪਣੇ ਪਾਸ ਲਈ ਬੱਸ ਦੀ ਕਿਸਮ ਚੁਣੋ:",
	},
	MsgNoPasses: {
		LangEnglish: "You have no passes yet.",
	},
	MsgUploadPDFOnly: {
		LangEnglish: "Please upload a PDF document only.",
		LangHindi:   "कृपया केवल PDF दस्तावेज़ अपलोड करें।",
		LangPunjabi: "ਕਿਰਪਾ ਕਰਕੇ ਸਿਰਫ PDF ਦਸਤਾਵੇਜ਼ ਅਪਲੋਡ ਕਰੋ।",
	},
	MsgDocReceivedOne: {
		LangEnglish: "Document received. Thank you!",
		LangHindi:   "दस्तावेज़ प्राप्त हुआ। धन्यवाद!",
		LangPunjabi: "ਦਸਤਾਵੇਜ਼ ਪ੍ਰਾਪਤ ਹੋਇਆ। ਧੰਨਵਾਦ!",
	},
	MsgDocReceivedBoth: {
		LangEnglish: "Both documents received. Thank you!",
		LangHindi:   "दोनों दस्तावेज़ प्राप्त हुए। धन्यवाद!",
		LangPunjabi: "ਦੋਵੇਂ ਦਸਤਾਵੇਜ਼ ਪ੍ਰਾਪਤ ਹੋਏ। ਧੰਨਵਾਦ!",
	},
	MsgDocStepTwo: {
		LangEnglish: "Step 2/2: Please upload your Aadhar Card (PDF only)",
		LangHindi:   "चरण 2/2: कृपया अपना आधार कार्ड अपलोड करें (केवल PDF)",
		LangPunjabi: "ਕਦਮ 2/2: ਕਿਰਪਾ ਕਰਕੇ ਆਪਣਾ ਆਧਾਰ ਕਾਰਡ ਅਪਲੋਡ ਕਰੋ (ਸਿਰਫ PDF)",
	},
	MsgTrackingSoon: {
		LangEnglish: "🚧 Bus Tracking Feature Coming Soon! 🚧\n\nWe're working hard to bring you real-time bus tracking. This feature will be available in the next update.",
		LangHindi:   "🚧 बस ट्रैकिंग सुविधा जल्द आ रही है! 🚧\n\nहम आपको रीयल-टाइम बस ट्रैकिंग प्रदान करने के लिए कड़ी मेहनत कर रहे हैं। यह सुविधा अगले अपडेट में उपलब्ध होगी।",
		LangPunjabi: "🚧 ਬੱਸ ਟਰੈਕਿੰਗ ਫੀਚਰ ਜਲਦੀ ਆ ਰਿਹਾ ਹੈ! 🚧\n\nਅਸੀਂ ਤੁਹਾਨੂੰ ਰੀਅਲ-ਟਾਈਮ ਬੱਸ ਟਰੈਕਿੰਗ ਪ੍ਰਦਾਨ ਕਰਨ ਲਈ ਸਖ਼ਤ ਮਿਹਨਤ ਕਰ ਰਹੇ ਹਾਂ। ਇਹ ਫੀਚਰ ਅਗਲੇ ਅੱਪਡੇਟ ਵਿੱਚ ਉਪਲਬਧ ਹੋਵੇਗਾ।",
	},
	MsgRouteInfo: {
		LangEnglish: "📋 CTU Bus Routes Information 📋\n\nHere are the CTU bus routes:",
		LangHindi:   "📋 CTU बस मार्ग जानकारी 📋\n\nयहां CTU बस मार्ग हैं:",
		LangPunjabi: "📋 CTU ਬੱਸ ਰੂਟ ਜਾਣਕਾਰੀ 📋\n\nਇੱਥੇ CTU ਬੱਸ ਰੂਟ ਹਨ:",
	},
	MsgRouteFollowUp: {
		LangEnglish: "Use the button below to return to the main menu:",
	},
	MsgSupport: {
		LangEnglish: "For customer support, please contact:\n\n📞 Helpline: 0172-2704124\n📧 Email: ctu-chd@nic.in\n🌐 Website: https://chdctu.gov.in\n\nOperating Hours: 9:00 AM - 5:00 PM (Monday to Saturday)",
		LangHindi:   "ग्राहक सहायता के लिए, कृपया संपर्क करें:\n\n📞 हेल्पलाइन: 0172-2704124\n📧 ईमेल: ctu-chd@nic.in\n🌐 वेबसाइट: https://chdctu.gov.in\n\nकार्य समय: सुबह 9:00 - शाम 5:00 (सोमवार से शनिवार)",
		LangPunjabi: "ਗਾਹਕ ਸਹਾਇਤਾ ਲਈ, ਕਿਰਪਾ ਕਰਕੇ ਸੰਪਰਕ ਕਰੋ:\n\n📞 ਹੈਲਪਲਾਈਨ: 0172-2704124\n📧 ਈਮੇਲ: ctu-chd@nic.in\n🌐 ਵੈੱਬਸਾਈਟ: https://chdctu.gov.in\n\nਕੰਮ ਦੇ ਘੰਟੇ: ਸਵੇਰੇ 9:00 - ਸ਼ਾਮ 5:00 (ਸੋਮਵਾਰ ਤੋਂ ਸ਼ਨੀਵਾਰ)",
	},
	MsgHelp: {
		LangEnglish: "Here's how to use this bot:\n\n• /start - Start the bot\n• /menu - Show main menu\n• /language - Change language\n• /help - Show this help message\n• /reset - Reset the conversation\n\nYou can navigate through the menus by tapping on the buttons.",
		LangHindi:   "इस बॉट का उपयोग कैसे करें:\n\n• /start - बॉट शुरू करें\n• /menu - मुख्य मेनू दिखाएं\n• /language - भाषा बदलें\n• /help - यह सहायता संदेश दिखाएं\n• /reset - वार्तालाप रीसेट करें\n\nआप बटन पर टैप करके मेनू में नेविगेट कर सकते हैं।",
		LangPunjabi: "ਇਸ ਬੋਟ ਦੀ ਵਰਤੋਂ ਕਿਵੇਂ ਕਰਨੀ ਹੈ:\n\n• /start - ਬੋਟ ਸ਼ੁਰੂ ਕਰੋ\n• /menu - ਮੁੱਖ ਮੇਨੂ ਦਿਖਾਓ\n• /language - ਭਾਸ਼ਾ ਬਦਲੋ\n• /help - ਇਹ ਮਦਦ ਸੰਦੇਸ਼ ਦਿਖਾਓ\n• /reset - ਗੱਲਬਾਤ ਰੀਸੈਟ ਕਰੋ\n\nਤੁਸੀਂ ਬਟਨਾਂ ਤੇ ਟੈਪ ਕਰਕੇ ਮੇਨੂ ਵਿੱਚ ਨੈਵੀਗੇਟ ਕਰ ਸਕਦੇ ਹੋ।",
	},
	MsgUseButtons: {
		LangEnglish: "Please use the buttons to navigate. If you don't see any buttons, use /menu to show the main menu or /reset to restart the bot.",
	},
	MsgResetDone: {
		LangEnglish: "Bot has been reset. Starting over...",
	},
	MsgErrGeneric: {
		LangEnglish: "Sorry, something went wrong. Please try again.",
	},
	MsgInvalidSelection: {
		LangEnglish: "Invalid selection. Please try again.",
	},

	BtnBackToMenu: {
		LangEnglish: "🏠 Back to Main Menu",
		LangHindi:   "🏠 मुख्य मेनू पर वापस जाएं",
		LangPunjabi: "🏠 ਮੁੱਖ ਮੇਨੂ ਤੇ ਵਾਪਸ ਜਾਓ",
	},
	BtnBackToTicketMenu: {
		LangEnglish: "⬅️ Back to Ticket Menu",
		LangHindi:   "⬅️ टिकट मेनू पर वापस जाएं",
		LangPunjabi: "⬅️ ਟਿਕਟ ਮੇਨੂ ਤੇ ਵਾਪਸ ਜਾਓ",
	},
	BtnBuyTicket: {
		LangEnglish: "🎫 Buy Bus Ticket",
		LangHindi:   "🎫 बस टिकट खरीदें",
		LangPunjabi: "🎫 ਬੱਸ ਟਿਕਟ ਖਰੀਦੋ",
	},
	BtnViewTickets: {
		LangEnglish: "🔍 View Purchased Tickets",
		LangHindi:   "🔍 खरीदे गए टिकट देखें",
		LangPunjabi: "🔍 ਖਰੀਦੇ ਗਏ ਟਿਕਟ ਵੇਖੋ",
	},
	BtnBuyPass: {
		LangEnglish: "📝 Buy Bus Pass",
		LangHindi:   "📝 बस पास खरीदें",
		LangPunjabi: "📝 ਬੱਸ ਪਾਸ ਖਰੀਦੋ",
	},
	BtnViewPasses: {
		LangEnglish: "🔍 View My Passes",
		LangHindi:   "🔍 मेरे पास देखें",
		LangPunjabi: "🔍 ਮੇਰੇ ਪਾਸ ਵੇਖੋ",
	},
	BtnTrackBus: {
		LangEnglish: "🚌 Track Bus",
		LangHindi:   "🚌 बस ट्रैक करें",
		LangPunjabi: "🚌 ਬੱਸ ਟਰੈਕ ਕਰੋ",
	},
	BtnViewRoutes: {
		LangEnglish: "🗺️ View Routes",
		LangHindi:   "🗺️ मार्ग देखें",
		LangPunjabi: "🗺️ ਰੂਟ ਵੇਖੋ",
	},
	BtnSupport: {
		LangEnglish: "📞 Customer Support",
		LangHindi:   "📞 ग्राहक सहायता",
		LangPunjabi: "📞 ਗਾਹਕ ਸਹਾਇਤਾ",
	},
	BtnBusAC: {
		LangEnglish: "🚌 AC Bus",
		LangHindi:   "🚌 एसी बस",
		LangPunjabi: "🚌 ਏਸੀ ਬੱਸ",
	},
	BtnBusNonAC: {
		LangEnglish: "🚌 Non-AC Bus",
		LangHindi:   "🚌 नॉन-एसी बस",
		LangPunjabi: "🚌 ਨਾਨ-ਏਸੀ ਬੱਸ",
	},
	BtnBack: {
		LangEnglish: "⬅️ Back",
		LangHindi:   "⬅️ वापस",
		LangPunjabi: "⬅️ ਵਾਪਸ",
	},
	BtnContinue: {
		LangEnglish: "✅ Continue",
	},
}
