package content

import "maps"

// Document is the whole editable portfolio: every section, the skills
// taxonomy keyed by category id, and the three item lists.
type Document struct {
	Hero         Hero                      `json:"hero"`
	About        About                     `json:"about"`
	Contact      Contact                   `json:"contact"`
	Skills       map[string]SkillsCategory `json:"skills"`
	Projects     []Project                 `json:"projects"`
	Experiences  []Experience              `json:"experiences"`
	Testimonials []Testimonial             `json:"testimonials"`
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := d
	out.Hero.Tags = append([]string{}, d.Hero.Tags...)
	out.Hero.MiniCards = append([]MiniCard{}, d.Hero.MiniCards...)
	out.About.CoreAbilities = append([]string{}, d.About.CoreAbilities...)
	out.About.Stats = maps.Clone(d.About.Stats)
	if out.About.Stats == nil {
		out.About.Stats = map[string]int{}
	}

	out.Skills = make(map[string]SkillsCategory, len(d.Skills))
	for id, c := range d.Skills {
		out.Skills[id] = c.Clone()
	}

	out.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Tags = append([]string{}, p.Tags...)
		p.Features = append([]string{}, p.Features...)
		out.Projects[i] = p
	}
	out.Experiences = make([]Experience, len(d.Experiences))
	for i, e := range d.Experiences {
		e.Achievements = append([]string{}, e.Achievements...)
		e.Tags = append([]string{}, e.Tags...)
		out.Experiences[i] = e
	}
	out.Testimonials = append([]Testimonial{}, d.Testimonials...)
	return out
}

// Defaults returns the content shown before anything has been loaded and
// written by folio-admin seed. Item ids are placeholders; stores assign
// real ids on create.
func Defaults() Document {
	return Document{
		Hero: Hero{
			Title:       "Hi, I'm Gaurav",
			Subtitle:    "Dev & Creator",
			Description: "I build game-inspired web experiences, heavy on performance, control, and delightful micro-interactions. I design interfaces that feel like menus and HUDs in retro games.",
			Tags:        []string{"React", "TypeScript", "Framer Motion", "Tailwind", "3D/Assets"},
			MiniCards: []MiniCard{
				{Title: "Top Project", Desc: "Live"},
				{Title: "Current Goal", Desc: "Next Level"},
				{Title: "Status", Desc: "Live"},
				{Title: "Shop", Desc: "Open"},
			},
		},
		About: About{
			Title:    "ABOUT • PLAYER",
			Subtitle: "A game-inspired developer - UI/UX first design - retro arcade polish",
			Mission:  "I craft game-involved web experiences that are fast, tactile, and deliberately playful. Motion-first UI with careful performance optimization and interfaces that feel like a controller in your hands.",
			CoreAbilities: []string{
				"Frontend Development",
				"UI/UX Design",
				"Performance Optimization",
				"Creative Problem Solving",
			},
			Stats: map[string]int{"projects": 42, "yearsXP": 5, "videos": 128},
		},
		Contact: Contact{
			Name:   "Gaurav Sharma",
			Role:   "Frontend • Creator",
			Bio:    "Want collabs, streaming hooks, packaging, or consulting? Ping me. I respond quickly.",
			Email:  "contact@gauravsharma.dev",
			Status: "available",
		},
		Skills: map[string]SkillsCategory{
			"foundations": {
				Label:  "Foundations",
				Skills: []string{"HTML", "CSS", "JAVASCRIPT", "TYPESCRIPT", "SASS", "TAILWIND"},
				Achievements: []string{
					"Semantic HTML with ARIA patterns and component tokens",
					"Advanced CSS animations and responsive design",
					"Modern JavaScript ES6+ and TypeScript proficiency",
				},
			},
			"frontend": {
				Label:  "Frontend",
				Skills: []string{"REACT", "NEXT.JS", "VUE", "GSAP", "FRAMER MOTION", "THREE.JS"},
				Achievements: []string{
					"Component-based architecture and state management",
					"Performance optimization and code splitting",
					"Interactive animations and 3D web experiences",
				},
			},
			"backend": {
				Label:  "Backend",
				Skills: []string{"NODE.JS", "EXPRESS", "MONGODB", "POSTGRESQL", "REST API", "GRAPHQL"},
				Achievements: []string{
					"RESTful API design and implementation",
					"Database design and optimization",
					"Server-side rendering and authentication",
				},
			},
			"design": {
				Label:  "Design",
				Skills: []string{"FIGMA", "ADOBE XD", "SKETCH", "PRINCIPLE", "AFTER EFFECTS", "BLENDER"},
				Achievements: []string{
					"User-centered design and prototyping",
					"Motion design and micro-interactions",
					"3D modeling and asset creation",
				},
			},
			"tools": {
				Label:  "Tools & Engines",
				Skills: []string{"GIT", "GITHUB", "DOCKER", "AWS", "VERCEL", "NETLIFY"},
				Achievements: []string{
					"Version control and CI/CD pipelines",
					"Cloud deployment and infrastructure",
					"DevOps and automation tools",
				},
			},
		},
		Projects: []Project{
			{
				ID:               1,
				Title:            "Retro Portfolio",
				Name:             "retro-portfolio",
				Description:      "A game-inspired portfolio website with retro aesthetics, built with React and Framer Motion. Features smooth animations, pixel-perfect design, and a unique gaming UI experience.",
				ShortDescription: "Game-inspired portfolio with retro aesthetics",
				Tags:             []string{"React", "Framer Motion", "Tailwind CSS", "Vite"},
				Features: []string{
					"Smooth animations and transitions",
					"Responsive design",
					"Admin panel for content management",
					"Retro gaming UI elements",
				},
			},
			{
				ID:               2,
				Title:            "E-Commerce Platform",
				Name:             "ecommerce-platform",
				Description:      "A full-stack e-commerce solution with user authentication, payment integration, and admin dashboard. Built with modern web technologies for optimal performance.",
				ShortDescription: "Full-stack e-commerce solution",
				Tags:             []string{"Next.js", "Node.js", "PostgreSQL", "Stripe"},
				Features: []string{
					"User authentication and authorization",
					"Payment processing",
					"Product management",
					"Order tracking",
				},
			},
			{
				ID:               3,
				Title:            "Task Management App",
				Name:             "task-manager",
				Description:      "A collaborative task management application with real-time updates, drag-and-drop functionality, and team collaboration features.",
				ShortDescription: "Collaborative task management app",
				Tags:             []string{"React", "Socket.io", "MongoDB", "Express"},
				Features: []string{
					"Real-time collaboration",
					"Drag and drop interface",
					"Team workspaces",
					"Task assignments and deadlines",
				},
			},
		},
		Experiences: []Experience{
			{
				ID:          1,
				Company:     "Tech Startup Inc.",
				Role:        "Senior Frontend Developer",
				Period:      "2022 - Present",
				Description: "Leading frontend development for multiple client projects, focusing on React-based applications and performance optimization.",
				Achievements: []string{
					"Improved application performance by 40% through code optimization",
					"Led a team of 3 junior developers",
					"Implemented design system used across 10+ projects",
				},
				Tags: []string{"React", "TypeScript", "Team Leadership", "Performance"},
			},
			{
				ID:          2,
				Company:     "Digital Agency",
				Role:        "Frontend Developer",
				Period:      "2020 - 2022",
				Description: "Developed responsive web applications for various clients, working closely with designers to implement pixel-perfect UI/UX designs.",
				Achievements: []string{
					"Delivered 20+ client projects on time",
					"Reduced page load times by 50%",
					"Mentored 2 junior developers",
				},
				Tags: []string{"React", "Vue.js", "CSS", "UI/UX"},
			},
			{
				ID:          3,
				Company:     "Freelance",
				Role:        "Web Developer",
				Period:      "2019 - 2020",
				Description: "Worked as a freelance developer, building custom websites and web applications for small businesses and startups.",
				Achievements: []string{
					"Completed 15+ freelance projects",
					"Maintained 100% client satisfaction rate",
					"Built reusable component library",
				},
				Tags: []string{"HTML", "CSS", "JavaScript", "WordPress"},
			},
		},
		Testimonials: []Testimonial{
			{
				ID:     1,
				Text:   "Gaurav delivered an exceptional portfolio website that perfectly captured our vision. The attention to detail and smooth animations made it stand out from the competition.",
				Author: "Sarah Johnson",
				Role:   "Creative Director",
				Rating: 5,
			},
			{
				ID:     2,
				Text:   "Working with Gaurav was a pleasure. He transformed our ideas into a beautiful, functional website that exceeded our expectations. Highly recommended!",
				Author: "Michael Chen",
				Role:   "Product Manager",
				Rating: 5,
			},
			{
				ID:     3,
				Text:   "The retro gaming aesthetic Gaurav created for our portfolio was exactly what we wanted. The user experience is smooth and engaging. Great work!",
				Author: "Emily Rodriguez",
				Role:   "Marketing Lead",
				Rating: 5,
			},
		},
	}
}
